package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

const (
	// offset of the withdrawer in a stake account's authorized meta
	stakeWithdrawerOffset = 44

	// size of an SPL token account
	tokenAccountSize = 165
)

// HelperService groups network level helper calls
type HelperService struct {
	client *Client
}

// ProgramAccount is a jsonParsed account owned by a program
type ProgramAccount struct {
	Pubkey   solana.PublicKey `json:"pubkey"`
	Lamports uint64           `json:"lamports"`
	Owner    solana.PublicKey `json:"owner"`
	Data     json.RawMessage  `json:"data"`
}

type PriorityFeeOptions struct {
	PriorityLevel               string `json:"priorityLevel,omitempty"`
	IncludeAllPriorityFeeLevels bool   `json:"includeAllPriorityFeeLevels,omitempty"`
	TransactionEncoding         string `json:"transactionEncoding,omitempty"`
	LookbackSlots               int    `json:"lookbackSlots,omitempty"`
	Recommended                 bool   `json:"recommended,omitempty"`
}

// priorityFeeRequest takes either a serialized transaction or account keys
type priorityFeeRequest struct {
	Transaction string              `json:"transaction,omitempty"`
	AccountKeys []string            `json:"accountKeys,omitempty"`
	Options     *PriorityFeeOptions `json:"options,omitempty"`
}

type PriorityFeeLevels struct {
	Min       float64 `json:"min"`
	Low       float64 `json:"low"`
	Medium    float64 `json:"medium"`
	High      float64 `json:"high"`
	VeryHigh  float64 `json:"veryHigh"`
	UnsafeMax float64 `json:"unsafeMax"`
}

// PriorityFeeEstimate is in micro-lamports per compute unit
type PriorityFeeEstimate struct {
	PriorityFeeEstimate *float64           `json:"priorityFeeEstimate,omitempty"`
	PriorityFeeLevels   *PriorityFeeLevels `json:"priorityFeeLevels,omitempty"`
}

// GetCurrentTPS returns transactions per second over the latest performance sample
func (s *HelperService) GetCurrentTPS(ctx context.Context) (float64, error) {
	limit := uint(1)
	samples, err := s.client.rpc.GetRecentPerformanceSamples(ctx, &limit)
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 || samples[0] == nil {
		return 0, fmt.Errorf("no performance samples available")
	}
	if samples[0].SamplePeriodSecs == 0 {
		return 0, fmt.Errorf("performance sample has an empty period")
	}
	return float64(samples[0].NumTransactions) / float64(samples[0].SamplePeriodSecs), nil
}

// Airdrop requests lamports for address. Only devnet and testnet honour it.
func (s *HelperService) Airdrop(ctx context.Context, address solana.PublicKey, lamports uint64) (solana.Signature, error) {
	return s.client.rpc.RequestAirdrop(ctx, address, lamports, "")
}

// GetStakeAccounts returns the stake accounts whose withdraw authority is wallet
func (s *HelperService) GetStakeAccounts(ctx context.Context, wallet solana.PublicKey) ([]ProgramAccount, error) {
	return s.programAccounts(ctx, solana.StakeProgramID, []rpc.RPCFilter{
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: stakeWithdrawerOffset, Bytes: solana.Base58(wallet.Bytes())}},
	})
}

// GetTokenHolders returns every token account of mint
func (s *HelperService) GetTokenHolders(ctx context.Context, mint solana.PublicKey) ([]ProgramAccount, error) {
	return s.programAccounts(ctx, solana.TokenProgramID, []rpc.RPCFilter{
		{DataSize: tokenAccountSize},
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(mint.Bytes())}},
	})
}

func (s *HelperService) programAccounts(ctx context.Context, program solana.PublicKey, filters []rpc.RPCFilter) ([]ProgramAccount, error) {
	out, err := s.client.rpc.GetProgramAccountsWithOpts(ctx, program, &rpc.GetProgramAccountsOpts{
		Encoding: solana.EncodingJSONParsed,
		Filters:  filters,
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]ProgramAccount, 0, len(out))
	for _, keyed := range out {
		if keyed == nil || keyed.Account == nil {
			continue
		}
		account := ProgramAccount{
			Pubkey:   keyed.Pubkey,
			Lamports: keyed.Account.Lamports,
			Owner:    keyed.Account.Owner,
		}
		if keyed.Account.Data != nil {
			account.Data = keyed.Account.Data.GetRawJSON()
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// GetPriorityFeeEstimate returns the fee estimate with every priority level
// for transactions touching accountKeys
func (s *HelperService) GetPriorityFeeEstimate(ctx context.Context, accountKeys []string) (*PriorityFeeEstimate, error) {
	return s.estimatePriorityFee(ctx, priorityFeeRequest{
		AccountKeys: accountKeys,
		Options: &PriorityFeeOptions{
			IncludeAllPriorityFeeLevels: true,
		},
	})
}

func (s *HelperService) estimatePriorityFee(ctx context.Context, req priorityFeeRequest) (*PriorityFeeEstimate, error) {
	var estimate PriorityFeeEstimate
	if err := s.client.rpcCall(ctx, "getPriorityFeeEstimate", []interface{}{req}, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

// GetBalance returns the balance of address in lamports
func (s *HelperService) GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	out, err := s.client.rpc.GetBalance(ctx, address, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, err
	}
	return out.Value, nil
}
