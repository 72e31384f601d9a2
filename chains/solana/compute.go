package solana

import (
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

const (
	// MaxComputeUnits is the per-transaction compute ceiling used when probing
	MaxComputeUnits = 1_400_000

	// MinComputeUnits is the floor applied to simulated compute usage
	MinComputeUnits = 1_000

	// ComputeUnitMarginPercent is simulated usage plus ten percent headroom
	ComputeUnitMarginPercent = 110
)

// ComputeUnitLimitInstruction caps the compute units a transaction may use
func ComputeUnitLimitInstruction(units uint32) solana.Instruction {
	return computebudget.NewSetComputeUnitLimitInstruction(units).Build()
}

// ComputeUnitPriceInstruction sets the priority fee in micro-lamports per compute unit
func ComputeUnitPriceInstruction(microLamports uint64) solana.Instruction {
	return computebudget.NewSetComputeUnitPriceInstruction(microLamports).Build()
}

// HasComputeBudgetInstruction reports whether any instruction targets the
// compute budget program.
func HasComputeBudgetInstruction(instructions []solana.Instruction) bool {
	for _, ix := range instructions {
		if ix.ProgramID().Equals(computebudget.ProgramID) {
			return true
		}
	}
	return false
}

// ComputeUnitLimit turns simulated usage into the limit set on the final
// transaction: usage plus ten percent, never below MinComputeUnits.
func ComputeUnitLimit(consumed uint64) uint32 {
	limit := (consumed*ComputeUnitMarginPercent + 99) / 100
	if limit < MinComputeUnits {
		return MinComputeUnits
	}
	if limit > MaxComputeUnits {
		return MaxComputeUnits
	}
	return uint32(limit)
}
