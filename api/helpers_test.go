package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestGetCurrentTPS(t *testing.T) {
	node, server := newFakeNode(t)
	node.handle("getRecentPerformanceSamples", func(raw json.RawMessage) (interface{}, *RPCError) {
		params := positionalParams(t, raw)
		if len(params) != 1 || string(params[0]) != "1" {
			t.Errorf("expected limit of 1, got %s", raw)
		}
		return []map[string]interface{}{
			{"slot": 100, "numSlots": 150, "numTransactions": 6000, "samplePeriodSecs": 60},
		}, nil
	})

	client := newTestClient(server.URL)
	tps, err := client.Helpers.GetCurrentTPS(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tps != 100 {
		t.Errorf("expected 100 TPS, got %v", tps)
	}
}

func TestGetCurrentTPSNoSamples(t *testing.T) {
	node, server := newFakeNode(t)
	node.result("getRecentPerformanceSamples", []interface{}{})

	client := newTestClient(server.URL)
	if _, err := client.Helpers.GetCurrentTPS(context.Background()); err == nil {
		t.Error("expected error without samples")
	}
}

func TestAirdrop(t *testing.T) {
	node, server := newFakeNode(t)
	address := solana.NewWallet().PublicKey()
	want := solana.Signature{9, 9, 9}

	node.handle("requestAirdrop", func(raw json.RawMessage) (interface{}, *RPCError) {
		params := positionalParams(t, raw)
		if len(params) < 2 {
			t.Errorf("expected address and lamports, got %s", raw)
			return nil, &RPCError{Code: -32602, Message: "bad params"}
		}
		if string(params[0]) != `"`+address.String()+`"` {
			t.Errorf("expected address %s, got %s", address, params[0])
		}
		if string(params[1]) != "1000000000" {
			t.Errorf("expected 1 SOL in lamports, got %s", params[1])
		}
		return want.String(), nil
	})

	client := newTestClient(server.URL, WithCluster(ClusterDevnet))
	sig, err := client.Helpers.Airdrop(context.Background(), address, solana.LAMPORTS_PER_SOL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sig != want {
		t.Errorf("expected %s, got %s", want, sig)
	}
}

func programAccountsResult(owner solana.PublicKey, keys ...solana.PublicKey) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		out = append(out, map[string]interface{}{
			"pubkey": key.String(),
			"account": map[string]interface{}{
				"lamports":   2282880,
				"owner":      owner.String(),
				"executable": false,
				"data": map[string]interface{}{
					"program": "parsed",
					"parsed":  map[string]interface{}{"type": "initialized"},
					"space":   200,
				},
			},
		})
	}
	return out
}

// programAccountsOpts decodes the options object of getProgramAccounts
func programAccountsOpts(t *testing.T, raw json.RawMessage) (string, map[string]interface{}) {
	t.Helper()
	params := positionalParams(t, raw)
	if len(params) != 2 {
		t.Errorf("expected program and options, got %s", raw)
		return "", nil
	}
	var program string
	json.Unmarshal(params[0], &program)
	var opts map[string]interface{}
	json.Unmarshal(params[1], &opts)
	return program, opts
}

func TestGetStakeAccounts(t *testing.T) {
	node, server := newFakeNode(t)
	wallet := solana.NewWallet().PublicKey()
	stake := solana.NewWallet().PublicKey()

	node.handle("getProgramAccounts", func(raw json.RawMessage) (interface{}, *RPCError) {
		program, opts := programAccountsOpts(t, raw)
		if program != solana.StakeProgramID.String() {
			t.Errorf("expected stake program, got %s", program)
		}
		if opts["encoding"] != "jsonParsed" {
			t.Errorf("expected jsonParsed encoding, got %v", opts["encoding"])
		}
		filters, _ := opts["filters"].([]interface{})
		if len(filters) != 1 {
			t.Errorf("expected 1 filter, got %v", opts["filters"])
			return programAccountsResult(solana.StakeProgramID), nil
		}
		memcmp, _ := filters[0].(map[string]interface{})["memcmp"].(map[string]interface{})
		if memcmp["offset"] != float64(stakeWithdrawerOffset) {
			t.Errorf("expected withdrawer offset %d, got %v", stakeWithdrawerOffset, memcmp["offset"])
		}
		if memcmp["bytes"] != wallet.String() {
			t.Errorf("expected wallet bytes %s, got %v", wallet, memcmp["bytes"])
		}
		return programAccountsResult(solana.StakeProgramID, stake), nil
	})

	client := newTestClient(server.URL)
	accounts, err := client.Helpers.GetStakeAccounts(context.Background(), wallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts) != 1 {
		t.Fatalf("expected 1 stake account, got %d", len(accounts))
	}

	if !accounts[0].Pubkey.Equals(stake) || accounts[0].Lamports != 2282880 {
		t.Errorf("unexpected account: %+v", accounts[0])
	}

	if !accounts[0].Owner.Equals(solana.StakeProgramID) {
		t.Errorf("expected stake program owner, got %s", accounts[0].Owner)
	}

	if len(accounts[0].Data) == 0 {
		t.Error("expected parsed account data")
	}
}

func TestGetTokenHolders(t *testing.T) {
	node, server := newFakeNode(t)
	mint := solana.NewWallet().PublicKey()
	holders := []solana.PublicKey{solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()}

	node.handle("getProgramAccounts", func(raw json.RawMessage) (interface{}, *RPCError) {
		program, opts := programAccountsOpts(t, raw)
		if program != solana.TokenProgramID.String() {
			t.Errorf("expected token program, got %s", program)
		}
		filters, _ := opts["filters"].([]interface{})
		if len(filters) != 2 {
			t.Errorf("expected 2 filters, got %v", opts["filters"])
			return programAccountsResult(solana.TokenProgramID), nil
		}
		if size := filters[0].(map[string]interface{})["dataSize"]; size != float64(tokenAccountSize) {
			t.Errorf("expected dataSize %d, got %v", tokenAccountSize, size)
		}
		memcmp, _ := filters[1].(map[string]interface{})["memcmp"].(map[string]interface{})
		if memcmp["offset"] != float64(0) || memcmp["bytes"] != mint.String() {
			t.Errorf("expected mint at offset 0, got %v", memcmp)
		}
		return programAccountsResult(solana.TokenProgramID, holders...), nil
	})

	client := newTestClient(server.URL)
	accounts, err := client.Helpers.GetTokenHolders(context.Background(), mint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts) != len(holders) {
		t.Fatalf("expected %d holders, got %d", len(holders), len(accounts))
	}
	for i := range holders {
		if !accounts[i].Pubkey.Equals(holders[i]) {
			t.Errorf("holder %d: expected %s, got %s", i, holders[i], accounts[i].Pubkey)
		}
	}
}

func TestGetPriorityFeeEstimate(t *testing.T) {
	node, server := newFakeNode(t)
	node.handle("getPriorityFeeEstimate", func(raw json.RawMessage) (interface{}, *RPCError) {
		params := positionalParams(t, raw)
		if len(params) != 1 {
			t.Errorf("expected a single request object, got %s", raw)
			return nil, &RPCError{Code: -32602, Message: "bad params"}
		}
		var req struct {
			Transaction string   `json:"transaction"`
			AccountKeys []string `json:"accountKeys"`
			Options     map[string]interface{}
		}
		json.Unmarshal(params[0], &req)
		if req.Transaction != "" {
			t.Errorf("expected no transaction, got '%s'", req.Transaction)
		}
		if len(req.AccountKeys) != 1 || req.AccountKeys[0] != AddressJupiterV6 {
			t.Errorf("expected account keys forwarded, got %v", req.AccountKeys)
		}
		if req.Options["includeAllPriorityFeeLevels"] != true {
			t.Errorf("expected includeAllPriorityFeeLevels=true, got %v", req.Options)
		}
		return map[string]interface{}{
			"priorityFeeLevels": map[string]interface{}{
				"min": 0, "low": 10, "medium": 1000, "high": 50000, "veryHigh": 250000, "unsafeMax": 1000000,
			},
		}, nil
	})

	client := newTestClient(server.URL)
	estimate, err := client.Helpers.GetPriorityFeeEstimate(context.Background(), []string{AddressJupiterV6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if estimate.PriorityFeeEstimate != nil {
		t.Errorf("expected no single estimate, got %v", *estimate.PriorityFeeEstimate)
	}

	if estimate.PriorityFeeLevels == nil || estimate.PriorityFeeLevels.Medium != 1000 || estimate.PriorityFeeLevels.UnsafeMax != 1000000 {
		t.Errorf("unexpected levels: %+v", estimate.PriorityFeeLevels)
	}
}

func TestGetBalance(t *testing.T) {
	node, server := newFakeNode(t)
	address := solana.NewWallet().PublicKey()

	node.handle("getBalance", func(raw json.RawMessage) (interface{}, *RPCError) {
		params := positionalParams(t, raw)
		if len(params) != 2 || string(params[1]) != `{"commitment":"confirmed"}` {
			t.Errorf("expected confirmed commitment, got %s", raw)
		}
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   1500000000,
		}, nil
	})

	client := newTestClient(server.URL)
	balance, err := client.Helpers.GetBalance(context.Background(), address)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balance != 1500000000 {
		t.Errorf("expected 1500000000 lamports, got %d", balance)
	}
}
