package cmd

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chinmay1088/helius-tools/api"
)

func testExportData() *ExportData {
	return &ExportData{
		ExportDate: "2024-01-02 03:04:05",
		Cluster:    api.ClusterDevnet,
		Address:    "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Balance:    "1.500000000 SOL",
		Assets: []AssetData{
			{ID: "asset-1", Name: "Rock #1", Symbol: "ROCK", Interface: "V1_NFT", Compressed: true, Collection: "col"},
		},
		StakeAccounts: []StakeData{
			{Address: "stake-1", Balance: "2.000000000 SOL"},
		},
	}
}

func TestWriteExportFiles(t *testing.T) {
	csvFlag, jsonFlag, txtFlag = true, true, true
	defer func() { csvFlag, jsonFlag, txtFlag = false, false, false }()

	dir := t.TempDir()
	files, err := writeExportFiles(testExportData(), dir, "20240102_030405")
	if err != nil {
		t.Fatalf("failed to write export: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}

	wantCSV := filepath.Join(dir, "helius-tools_devnet_20240102_030405.csv")
	if files[0] != wantCSV {
		t.Errorf("expected '%s', got '%s'", wantCSV, files[0])
	}

	f, err := os.Open(files[0])
	if err != nil {
		t.Fatalf("failed to open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 csv rows, got %d", len(rows))
	}
	if rows[2][1] != "Asset" || rows[2][2] != "asset-1" {
		t.Errorf("expected asset row, got %v", rows[2])
	}
	if !strings.Contains(rows[2][3], "compressed") {
		t.Errorf("expected compressed marker, got '%s'", rows[2][3])
	}
	if rows[3][1] != "Stake" {
		t.Errorf("expected stake row, got %v", rows[3])
	}

	data, err := os.ReadFile(files[1])
	if err != nil {
		t.Fatalf("failed to read json: %v", err)
	}
	var decoded ExportData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to decode json: %v", err)
	}
	if decoded.Balance != "1.500000000 SOL" {
		t.Errorf("expected balance '1.500000000 SOL', got '%s'", decoded.Balance)
	}

	info, err := os.Stat(files[2])
	if err != nil {
		t.Fatalf("failed to stat txt: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestAssetRows(t *testing.T) {
	assets := []api.Asset{
		{
			ID:          "a",
			Interface:   "V1_NFT",
			Content:     &api.AssetContent{Metadata: api.Metadata{Name: "One", Symbol: "ONE"}},
			Compression: &api.Compression{Compressed: true},
			Grouping:    []api.Grouping{{GroupKey: "collection", GroupValue: "col"}},
		},
		{ID: "b", Interface: "FungibleToken"},
	}

	rows := assetRows(assets)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "One" || rows[0].Collection != "col" || !rows[0].Compressed {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Name != "" || rows[1].Compressed {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestParseAttributes(t *testing.T) {
	attributes, err := parseAttributes([]string{"Color = red", "Size=L"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attributes) != 2 || attributes[0].TraitType != "Color" || attributes[0].Value != "red" {
		t.Errorf("unexpected attributes: %+v", attributes)
	}

	if _, err := parseAttributes([]string{"novalue"}); err == nil {
		t.Error("expected error for attribute without '='")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"a, b", "", "c,,"})
	want := []string{"a", "b", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExplorerURL(t *testing.T) {
	if got := explorerURL("sig", api.ClusterDevnet); got != "https://solscan.io/tx/sig?cluster=devnet" {
		t.Errorf("expected devnet URL, got '%s'", got)
	}
	if got := explorerURL("sig", api.ClusterMainnet); got != "https://solscan.io/tx/sig" {
		t.Errorf("expected mainnet URL, got '%s'", got)
	}
}
