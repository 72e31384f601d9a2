package solana

import (
	"fmt"
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the number of lamports in one SOL
const LamportsPerSOL = 1_000_000_000

// Transaction collects everything needed to build and sign a Solana transaction
type Transaction struct {
	Instructions    []solana.Instruction
	Signers         []solana.PrivateKey
	FeePayer        solana.PublicKey
	LookupTables    map[solana.PublicKey]solana.PublicKeySlice
	RecentBlockhash solana.Hash
}

func NewTransaction(feePayer solana.PublicKey) *Transaction {
	return &Transaction{
		Instructions: make([]solana.Instruction, 0),
		Signers:      make([]solana.PrivateKey, 0),
		FeePayer:     feePayer,
	}
}

func (tx *Transaction) AddInstructions(instructions ...solana.Instruction) {
	tx.Instructions = append(tx.Instructions, instructions...)
}

// PrependInstructions puts instructions in front of the ones already added.
// Compute budget instructions go first by convention.
func (tx *Transaction) PrependInstructions(instructions ...solana.Instruction) {
	tx.Instructions = append(append(make([]solana.Instruction, 0, len(instructions)+len(tx.Instructions)), instructions...), tx.Instructions...)
}

func (tx *Transaction) AddTransferInstruction(from solana.PublicKey, to solana.PublicKey, amount uint64) {
	tx.Instructions = append(tx.Instructions, TransferInstruction(from, to, amount))
}

// TransferInstruction moves lamports between two system accounts
func TransferInstruction(from, to solana.PublicKey, lamports uint64) solana.Instruction {
	return system.NewTransferInstruction(lamports, from, to).Build()
}

func (tx *Transaction) AddSigners(signers ...solana.PrivateKey) {
	tx.Signers = append(tx.Signers, signers...)
}

func (tx *Transaction) SetRecentBlockhash(blockhash solana.Hash) {
	tx.RecentBlockhash = blockhash
}

// SetLookupTables sets resolved address lookup tables. A non-empty set
// produces a v0 message, otherwise a legacy message is built.
func (tx *Transaction) SetLookupTables(tables map[solana.PublicKey]solana.PublicKeySlice) {
	tx.LookupTables = tables
}

// Build compiles the message without signing it
func (tx *Transaction) Build() (*solana.Transaction, error) {
	if tx.RecentBlockhash == (solana.Hash{}) {
		return nil, fmt.Errorf("blockhash is empty")
	}
	if tx.FeePayer == (solana.PublicKey{}) {
		return nil, fmt.Errorf("fee payer is empty")
	}
	if len(tx.Instructions) == 0 {
		return nil, fmt.Errorf("no instructions provided for transaction")
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(tx.FeePayer)}
	if len(tx.LookupTables) > 0 {
		opts = append(opts, solana.TransactionAddressTables(tx.LookupTables))
	}

	stx, err := solana.NewTransaction(tx.Instructions, tx.RecentBlockhash, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return stx, nil
}

// BuildAndSign compiles the message and signs it with every configured signer
func (tx *Transaction) BuildAndSign() (*solana.Transaction, error) {
	if len(tx.Signers) == 0 {
		return nil, fmt.Errorf("no signers provided for transaction")
	}

	stx, err := tx.Build()
	if err != nil {
		return nil, err
	}

	_, err = stx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range tx.Signers {
			if key.Equals(tx.Signers[i].PublicKey()) {
				return &tx.Signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return stx, nil
}

// BuildForSimulation signs when signers are available and otherwise fills
// placeholder signatures so the node can deserialize the transaction.
func (tx *Transaction) BuildForSimulation() (*solana.Transaction, error) {
	if len(tx.Signers) > 0 {
		return tx.BuildAndSign()
	}

	stx, err := tx.Build()
	if err != nil {
		return nil, err
	}
	stx.Signatures = make([]solana.Signature, stx.Message.Header.NumRequiredSignatures)
	return stx, nil
}

// EncodeBase58 serializes a transaction in the encoding Helius and Jito expect
func EncodeBase58(stx *solana.Transaction) (string, error) {
	serialized, err := stx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base58.Encode(serialized), nil
}

func ParseAddress(address string) (solana.PublicKey, error) {
	// Base58 doesn't use 0, O, I, or l
	for i, c := range address {
		if c == '0' || c == 'O' || c == 'I' || c == 'l' {
			return solana.PublicKey{}, fmt.Errorf("invalid character '%c' at position %d in Solana address", c, i)
		}
	}

	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid Solana address (%s): %w", address, err)
	}
	return pubKey, nil
}

func ParseAddresses(addresses []string) ([]solana.PublicKey, error) {
	keys := make([]solana.PublicKey, 0, len(addresses))
	for _, address := range addresses {
		key, err := ParseAddress(address)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func ValidateAddress(address string) error {
	_, err := ParseAddress(address)
	return err
}

func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9)
}

// SOLToLamports converts a decimal SOL amount such as "1.5" into lamports.
// Amounts with more than nine decimal places are rejected.
func SOLToLamports(sol string) (uint64, error) {
	amount, err := decimal.NewFromString(sol)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", sol, err)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	lamports := amount.Shift(9)
	if !lamports.Equal(lamports.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than 9 decimal places", sol)
	}
	if lamports.GreaterThan(decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)) {
		return 0, fmt.Errorf("amount %q is too large", sol)
	}
	return lamports.BigInt().Uint64(), nil
}

func FormatBalance(lamports uint64) string {
	return fmt.Sprintf("%s SOL", LamportsToSOL(lamports).StringFixed(9))
}
