package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	chain "github.com/chinmay1088/helius-tools/chains/solana"
)

// TransactionService builds, sends and confirms smart transactions
type TransactionService struct {
	client *Client
}

// SendOptions controls submission of a smart transaction
type SendOptions struct {
	SkipPreflight  bool
	MaxRetries     *uint
	MinContextSlot *uint64

	// FeePayer must be one of the signers. Defaults to the first signer.
	FeePayer *solana.PublicKey
}

// TipOptions controls a Jito tipped submission. Zero values select
// DefaultTipAmount and DefaultTipRegion.
type TipOptions struct {
	Amount   uint64
	Region   string
	FeePayer *solana.PublicKey
}

// SmartTransaction is a signed transaction with its compute budget set
type SmartTransaction struct {
	Transaction          *solana.Transaction
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
	MinContextSlot       uint64
}

// BundleStatus is one entry of getBundleStatuses
type BundleStatus struct {
	BundleID           string          `json:"bundle_id"`
	Transactions       []string        `json:"transactions"`
	Slot               uint64          `json:"slot"`
	ConfirmationStatus string          `json:"confirmation_status"`
	Err                json.RawMessage `json:"err,omitempty"`
}

type BundleStatuses struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value []*BundleStatus `json:"value"`
}

// GetComputeUnits simulates the instructions under the maximum compute limit
// and returns the units consumed. It returns nil when the simulation fails.
func (s *TransactionService) GetComputeUnits(ctx context.Context, instructions []solana.Instruction, payer solana.PublicKey, lookupTables []solana.PublicKey, signers []solana.PrivateKey) (*uint64, error) {
	tables, err := s.resolveLookupTables(ctx, lookupTables)
	if err != nil {
		return nil, err
	}

	latest, err := s.client.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, err
	}

	return s.computeUnits(ctx, instructions, payer, tables, signers, latest.Value.Blockhash)
}

func (s *TransactionService) computeUnits(ctx context.Context, instructions []solana.Instruction, payer solana.PublicKey, tables map[solana.PublicKey]solana.PublicKeySlice, signers []solana.PrivateKey, blockhash solana.Hash) (*uint64, error) {
	tx := chain.NewTransaction(payer)
	tx.AddInstructions(chain.ComputeUnitLimitInstruction(chain.MaxComputeUnits))
	tx.AddInstructions(instructions...)
	tx.AddSigners(signers...)
	tx.SetLookupTables(tables)
	tx.SetRecentBlockhash(blockhash)

	stx, err := tx.BuildForSimulation()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.rpc.SimulateTransactionWithOpts(ctx, stx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		ReplaceRecentBlockhash: true,
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || resp.Value == nil {
		return nil, nil
	}
	if resp.Value.Err != nil {
		s.client.logger.Debug("simulation failed",
			zap.Any("err", resp.Value.Err),
			zap.Strings("logs", resp.Value.Logs),
		)
		return nil, nil
	}
	return resp.Value.UnitsConsumed, nil
}

// CreateSmartTransaction builds and signs a transaction with its priority
// fee and compute unit limit derived from a fee estimate and a simulation.
// Instructions must not touch the compute budget program already.
func (s *TransactionService) CreateSmartTransaction(ctx context.Context, instructions []solana.Instruction, signers []solana.PrivateKey, lookupTables []solana.PublicKey, feePayer *solana.PublicKey) (*SmartTransaction, error) {
	if len(signers) == 0 {
		return nil, ErrNoSigners
	}
	if chain.HasComputeBudgetInstruction(instructions) {
		return nil, ErrComputeBudgetInstruction
	}

	payer := signers[0].PublicKey()
	if feePayer != nil {
		payer = *feePayer
	}
	if !signs(signers, payer) {
		return nil, ErrFeePayerNotSigner
	}

	tables, err := s.resolveLookupTables(ctx, lookupTables)
	if err != nil {
		return nil, err
	}

	latest, err := s.client.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, err
	}
	blockhash := latest.Value.Blockhash

	tx := chain.NewTransaction(payer)
	tx.AddInstructions(instructions...)
	tx.AddSigners(signers...)
	tx.SetLookupTables(tables)
	tx.SetRecentBlockhash(blockhash)

	draft, err := tx.BuildAndSign()
	if err != nil {
		return nil, err
	}
	encoded, err := chain.EncodeBase58(draft)
	if err != nil {
		return nil, err
	}

	estimate, err := s.client.Helpers.estimatePriorityFee(ctx, priorityFeeRequest{
		Transaction: encoded,
		Options: &PriorityFeeOptions{
			Recommended: true,
		},
	})
	if err != nil {
		return nil, err
	}
	if estimate.PriorityFeeEstimate == nil {
		return nil, fmt.Errorf("priority fee estimate not available")
	}
	microLamports := uint64(math.Ceil(*estimate.PriorityFeeEstimate))
	tx.PrependInstructions(chain.ComputeUnitPriceInstruction(microLamports))

	units, err := s.computeUnits(ctx, tx.Instructions, payer, tables, signers, blockhash)
	if err != nil {
		return nil, err
	}
	if units == nil {
		return nil, ErrComputeUnits
	}
	limit := chain.ComputeUnitLimit(*units)
	tx.PrependInstructions(chain.ComputeUnitLimitInstruction(limit))

	s.client.logger.Debug("smart transaction built",
		zap.Uint64("priorityFee", microLamports),
		zap.Uint64("unitsConsumed", *units),
		zap.Uint32("computeUnitLimit", limit),
		zap.Int("lookupTables", len(tables)),
	)

	stx, err := tx.BuildAndSign()
	if err != nil {
		return nil, err
	}

	return &SmartTransaction{
		Transaction:          stx,
		Blockhash:            blockhash,
		LastValidBlockHeight: latest.Value.LastValidBlockHeight,
		MinContextSlot:       latest.Context.Slot,
	}, nil
}

// signs reports whether key belongs to one of signers
func signs(signers []solana.PrivateKey, key solana.PublicKey) bool {
	for _, signer := range signers {
		if signer.PublicKey().Equals(key) {
			return true
		}
	}
	return false
}

// SendSmartTransaction builds a smart transaction, sends it and waits for
// confirmation
func (s *TransactionService) SendSmartTransaction(ctx context.Context, instructions []solana.Instruction, signers []solana.PrivateKey, lookupTables []solana.PublicKey, opts SendOptions) (solana.Signature, error) {
	smart, err := s.CreateSmartTransaction(ctx, instructions, signers, lookupTables, opts.FeePayer)
	if err != nil {
		return solana.Signature{}, err
	}

	minContextSlot := smart.MinContextSlot
	if opts.MinContextSlot != nil {
		minContextSlot = *opts.MinContextSlot
	}

	sig, err := s.client.rpc.SendTransactionWithOpts(ctx, smart.Transaction, rpc.TransactionOpts{
		SkipPreflight:  opts.SkipPreflight,
		MaxRetries:     opts.MaxRetries,
		MinContextSlot: &minContextSlot,
	})
	if err != nil {
		return solana.Signature{}, err
	}

	s.client.logger.Debug("transaction sent", zap.Stringer("signature", sig))

	return s.PollTransactionConfirmation(ctx, sig)
}

// PollTransactionConfirmation checks the signature status every interval
// until it is confirmed or finalized. It gives up with ErrConfirmationTimeout
// once the configured timeout elapses.
func (s *TransactionService) PollTransactionConfirmation(ctx context.Context, sig solana.Signature) (solana.Signature, error) {
	timeout := time.NewTimer(s.client.confirmTimeout)
	defer timeout.Stop()
	ticker := time.NewTicker(s.client.confirmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return solana.Signature{}, ctx.Err()
		case <-timeout.C:
			return solana.Signature{}, fmt.Errorf("%w: %s", ErrConfirmationTimeout, sig)
		case <-ticker.C:
			out, err := s.client.rpc.GetSignatureStatuses(ctx, false, sig)
			if err != nil {
				if errors.Is(err, rpc.ErrNotFound) {
					continue
				}
				return solana.Signature{}, err
			}
			if len(out.Value) == 0 || out.Value[0] == nil {
				continue
			}
			switch out.Value[0].ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return sig, nil
			}
		}
	}
}

// SendSmartTransactionWithTip appends a Jito tip paid by the fee payer,
// builds the smart transaction, sends it as a single transaction bundle and
// waits for the bundle to land. It returns the landed transaction signature.
func (s *TransactionService) SendSmartTransactionWithTip(ctx context.Context, instructions []solana.Instruction, signers []solana.PrivateKey, lookupTables []solana.PublicKey, opts TipOptions) (string, error) {
	if len(signers) == 0 {
		return "", ErrNoSigners
	}

	amount := opts.Amount
	if amount == 0 {
		amount = DefaultTipAmount
	}
	region := opts.Region
	if region == "" {
		region = DefaultTipRegion
	}
	if _, err := s.jitoURL(region); err != nil {
		return "", err
	}

	payer := signers[0].PublicKey()
	if opts.FeePayer != nil {
		payer = *opts.FeePayer
	}
	if !signs(signers, payer) {
		return "", ErrFeePayerNotSigner
	}

	tipped := make([]solana.Instruction, 0, len(instructions)+1)
	tipped = append(tipped, instructions...)
	tipped = append(tipped, chain.TipInstruction(payer, amount))

	smart, err := s.CreateSmartTransaction(ctx, tipped, signers, lookupTables, &payer)
	if err != nil {
		return "", err
	}

	encoded, err := chain.EncodeBase58(smart.Transaction)
	if err != nil {
		return "", err
	}

	bundleID, err := s.SendJitoBundle(ctx, []string{encoded}, region)
	if err != nil {
		return "", err
	}

	s.client.logger.Debug("bundle sent",
		zap.String("bundleId", bundleID),
		zap.String("region", region),
		zap.Uint64("tip", amount),
	)

	return s.pollBundleStatus(ctx, bundleID, region)
}

// SendJitoBundle submits base58 encoded signed transactions as one bundle
// and returns the bundle id
func (s *TransactionService) SendJitoBundle(ctx context.Context, transactions []string, region string) (string, error) {
	endpoint, err := s.jitoURL(region)
	if err != nil {
		return "", err
	}

	var bundleID string
	if err := s.client.callJSONRPC(ctx, endpoint, "sendBundle", []interface{}{transactions}, &bundleID); err != nil {
		return "", err
	}
	return bundleID, nil
}

func (s *TransactionService) GetBundleStatuses(ctx context.Context, bundleIDs []string, region string) (*BundleStatuses, error) {
	endpoint, err := s.jitoURL(region)
	if err != nil {
		return nil, err
	}

	var statuses BundleStatuses
	if err := s.client.callJSONRPC(ctx, endpoint, "getBundleStatuses", []interface{}{bundleIDs}, &statuses); err != nil {
		return nil, err
	}
	return &statuses, nil
}

func (s *TransactionService) pollBundleStatus(ctx context.Context, bundleID, region string) (string, error) {
	timeout := time.NewTimer(s.client.bundleTimeout)
	defer timeout.Stop()
	ticker := time.NewTicker(s.client.bundleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timeout.C:
			return "", fmt.Errorf("%w: %s", ErrBundleTimeout, bundleID)
		case <-ticker.C:
			statuses, err := s.GetBundleStatuses(ctx, []string{bundleID}, region)
			if err != nil {
				return "", err
			}
			if len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}
			status := statuses.Value[0]
			if len(status.Transactions) == 0 {
				continue
			}
			switch rpc.ConfirmationStatusType(status.ConfirmationStatus) {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return status.Transactions[0], nil
			}
		}
	}
}

func (s *TransactionService) jitoURL(region string) (string, error) {
	endpoint, ok := s.client.jito[region]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	return endpoint, nil
}

// resolveLookupTables fetches the addresses of each lookup table account
func (s *TransactionService) resolveLookupTables(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey]solana.PublicKeySlice, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	tables := make(map[solana.PublicKey]solana.PublicKeySlice, len(keys))
	for _, key := range keys {
		state, err := addresslookuptable.GetAddressLookupTable(ctx, s.client.rpc, key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch lookup table %s: %w", key, err)
		}
		tables[key] = state.Addresses
	}
	return tables, nil
}
