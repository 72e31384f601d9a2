package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
	chain "github.com/chinmay1088/helius-tools/chains/solana"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export wallet data",
	Long: `Export a snapshot of your wallet: SOL balance, digital assets and
stake accounts on the current cluster.

File formats:
  --csv        Export to CSV format (default)
  --json       Export to JSON format
  --txt        Export to txt format

Assets are capped at 1000 per export.

Examples:
  helius-tools export                    # Export to CSV (default)
  helius-tools export --json             # Export to JSON
  helius-tools export --csv --json       # Export to both formats`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	csvFlag  bool
	jsonFlag bool
	txtFlag  bool
)

const exportAssetLimit = 1000

func init() {
	exportCmd.Flags().BoolVar(&csvFlag, "csv", false, "Export to CSV format")
	exportCmd.Flags().BoolVar(&jsonFlag, "json", false, "Export to JSON format")
	exportCmd.Flags().BoolVar(&txtFlag, "txt", false, "Export to txt format")
}

// export structure
type ExportData struct {
	ExportDate    string      `json:"export_date"`
	Cluster       string      `json:"cluster"`
	Address       string      `json:"address"`
	Balance       string      `json:"balance"`
	Assets        []AssetData `json:"assets"`
	StakeAccounts []StakeData `json:"stake_accounts"`
	Warnings      []string    `json:"warnings,omitempty"`
}

type AssetData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Interface  string `json:"interface"`
	Compressed bool   `json:"compressed"`
	Collection string `json:"collection,omitempty"`
}

type StakeData struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

func runExport(cmd *cobra.Command, args []string) error {
	manager, client, err := setup()
	if err != nil {
		return err
	}
	if err := requireUnlocked(manager); err != nil {
		return err
	}
	if !csvFlag && !jsonFlag && !txtFlag {
		csvFlag = true
	}

	cluster, err := resolveCluster(manager)
	if err != nil {
		return err
	}
	address, err := manager.GetAddress()
	if err != nil {
		return err
	}

	fmt.Printf("🌐 Current Cluster: %s\n", strings.ToUpper(cluster))
	fmt.Printf("📊 Exporting %s...\n", address)
	fmt.Println()

	exportData := &ExportData{
		ExportDate: time.Now().Format("2006-01-02 15:04:05"),
		Cluster:    cluster,
		Address:    address.String(),
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription("[cyan][1/3][reset] Collecting data..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:     "[green]=[reset]",
			SaucerHead: "[green]>[reset]",
			BarStart:   "[",
			BarEnd:     "]",
		}),
	)

	bar.Set(0)
	collectExportData(cmd.Context(), client, address, exportData, bar)

	bar.Set(70)
	bar.Describe("[cyan][2/3][reset] Preparing export files...")
	exportDir := filepath.Join(manager.Dir(), "exports")
	if err := os.MkdirAll(exportDir, 0700); err != nil {
		return fmt.Errorf("failed to prepare export directory: %w", err)
	}

	bar.Set(85)
	bar.Describe("[cyan][3/3][reset] Writing export files...")
	files, err := writeExportFiles(exportData, exportDir, time.Now().Format("20060102_150405"))
	if err != nil {
		return fmt.Errorf("failed to write export files: %w", err)
	}

	bar.Set(100)
	bar.Describe("[green][✓][reset] Export completed!")
	fmt.Println()
	fmt.Println()

	for _, warning := range exportData.Warnings {
		fmt.Printf("⚠️  Warning: %s\n", warning)
	}
	fmt.Println("📁 Export completed successfully!")
	for _, file := range files {
		fmt.Printf("📍 %s\n", file)
	}
	fmt.Println()
	fmt.Println("📊 Export Summary:")
	fmt.Printf("   Balance: %s\n", exportData.Balance)
	fmt.Printf("   Assets: %d\n", len(exportData.Assets))
	fmt.Printf("   Stake accounts: %d\n", len(exportData.StakeAccounts))
	return nil
}

// collectExportData fills exportData. A failed source is recorded as a warning
// and the export continues with the rest.
func collectExportData(ctx context.Context, client *api.Client, address solana.PublicKey, exportData *ExportData, bar *progressbar.ProgressBar) {
	balance, err := client.Helpers.GetBalance(ctx, address)
	if err != nil {
		exportData.Warnings = append(exportData.Warnings, fmt.Sprintf("failed to fetch balance: %v", err))
		exportData.Balance = "N/A"
	} else {
		exportData.Balance = chain.FormatBalance(balance)
	}
	bar.Add(20)

	assets, err := client.DAS.GetAssetsByOwner(ctx, address.String(), api.WithPage(1), api.WithLimit(exportAssetLimit))
	if err != nil {
		exportData.Warnings = append(exportData.Warnings, fmt.Sprintf("failed to fetch assets: %v", err))
	}
	exportData.Assets = assetRows(assets)
	bar.Add(30)

	stakes, err := client.Helpers.GetStakeAccounts(ctx, address)
	if err != nil {
		exportData.Warnings = append(exportData.Warnings, fmt.Sprintf("failed to fetch stake accounts: %v", err))
	}
	for _, stake := range stakes {
		exportData.StakeAccounts = append(exportData.StakeAccounts, StakeData{
			Address: stake.Pubkey.String(),
			Balance: chain.FormatBalance(stake.Lamports),
		})
	}
	bar.Add(20)
}

func assetRows(assets []api.Asset) []AssetData {
	rows := make([]AssetData, 0, len(assets))
	for _, asset := range assets {
		row := AssetData{
			ID:        asset.ID,
			Interface: asset.Interface,
		}
		if asset.Content != nil {
			row.Name = asset.Content.Metadata.Name
			row.Symbol = asset.Content.Metadata.Symbol
		}
		if asset.Compression != nil {
			row.Compressed = asset.Compression.Compressed
		}
		for _, group := range asset.Grouping {
			if group.GroupKey == "collection" {
				row.Collection = group.GroupValue
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// writeExportFiles writes every selected format and returns the file paths
func writeExportFiles(exportData *ExportData, exportDir, timestamp string) ([]string, error) {
	base := filepath.Join(exportDir, fmt.Sprintf("helius-tools_%s_%s", exportData.Cluster, timestamp))

	var files []string
	if csvFlag {
		if err := writeCSVFile(base+".csv", exportData); err != nil {
			return nil, fmt.Errorf("failed to write CSV export: %w", err)
		}
		files = append(files, base+".csv")
	}

	if jsonFlag {
		if err := writeJSONFile(base+".json", exportData); err != nil {
			return nil, fmt.Errorf("failed to write JSON export: %w", err)
		}
		files = append(files, base+".json")
	}

	if txtFlag {
		if err := writeTXTFile(base+".txt", exportData); err != nil {
			return nil, fmt.Errorf("failed to write txt export: %w", err)
		}
		files = append(files, base+".txt")
	}

	return files, nil
}

func writeCSVFile(filename string, exportData *ExportData) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	rows := [][]string{
		{"Cluster", "Data Type", "ID", "Details"},
		{exportData.Cluster, "Balance", exportData.Address, exportData.Balance},
	}
	for _, asset := range exportData.Assets {
		details := fmt.Sprintf("%s (%s) | %s", asset.Name, asset.Symbol, asset.Interface)
		if asset.Compressed {
			details += " | compressed"
		}
		if asset.Collection != "" {
			details += " | Collection: " + asset.Collection
		}
		rows = append(rows, []string{exportData.Cluster, "Asset", asset.ID, details})
	}
	for _, stake := range exportData.StakeAccounts {
		rows = append(rows, []string{exportData.Cluster, "Stake", stake.Address, stake.Balance})
	}

	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func writeJSONFile(filename string, exportData *ExportData) error {
	data, err := json.MarshalIndent(exportData, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

func writeTXTFile(filename string, exportData *ExportData) error {
	var content strings.Builder
	content.WriteString("HELIUS-TOOLS WALLET EXPORT\n")
	content.WriteString("==========================\n\n")
	content.WriteString(fmt.Sprintf("Export Date: %s\n", exportData.ExportDate))
	content.WriteString(fmt.Sprintf("Cluster: %s\n", strings.ToUpper(exportData.Cluster)))
	content.WriteString(fmt.Sprintf("Address: %s\n", exportData.Address))
	content.WriteString(fmt.Sprintf("Balance: %s\n", exportData.Balance))

	if len(exportData.Assets) > 0 {
		content.WriteString(fmt.Sprintf("\nAssets (%d):\n", len(exportData.Assets)))
		for i, asset := range exportData.Assets {
			content.WriteString(fmt.Sprintf("  %d. %s (%s) | %s\n", i+1, asset.Name, asset.Symbol, asset.Interface))
			content.WriteString(fmt.Sprintf("     ID: %s\n", asset.ID))
		}
	}

	if len(exportData.StakeAccounts) > 0 {
		content.WriteString(fmt.Sprintf("\nStake Accounts (%d):\n", len(exportData.StakeAccounts)))
		for _, stake := range exportData.StakeAccounts {
			content.WriteString(fmt.Sprintf("  %s  %s\n", stake.Address, stake.Balance))
		}
	}

	return os.WriteFile(filename, []byte(content.String()), 0600)
}
