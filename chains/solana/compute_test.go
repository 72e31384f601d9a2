package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestComputeUnitLimit(t *testing.T) {
	tests := []struct {
		consumed uint64
		want     uint32
	}{
		{0, MinComputeUnits},
		{900, MinComputeUnits},
		{999, 1099},
		{1000, 1100},
		{150_000, 165_000},
		{1_399_999, MaxComputeUnits},
	}

	for _, tt := range tests {
		if got := ComputeUnitLimit(tt.consumed); got != tt.want {
			t.Errorf("ComputeUnitLimit(%d) = %d, want %d", tt.consumed, got, tt.want)
		}
	}
}

func TestHasComputeBudgetInstruction(t *testing.T) {
	payer := newKey(t).PublicKey()
	tx := NewTransaction(payer)
	tx.AddTransferInstruction(payer, payer, 1)

	if HasComputeBudgetInstruction(tx.Instructions) {
		t.Error("transfer should not count as a compute budget instruction")
	}

	withBudget := append([]solana.Instruction{ComputeUnitPriceInstruction(10)}, tx.Instructions...)
	if !HasComputeBudgetInstruction(withBudget) {
		t.Error("expected compute budget instruction to be detected")
	}
}

func TestTipInstruction(t *testing.T) {
	payer := newKey(t).PublicKey()
	ix := TipInstruction(payer, 100000)

	if !ix.ProgramID().Equals(solana.SystemProgramID) {
		t.Fatalf("expected system program, got %s", ix.ProgramID())
	}

	accounts := ix.Accounts()
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if !accounts[0].PublicKey.Equals(payer) {
		t.Errorf("expected payer as source")
	}
	if !IsTipAccount(accounts[1].PublicKey) {
		t.Errorf("expected a Jito tip account as destination, got %s", accounts[1].PublicKey)
	}
}

func TestCollectionAuthorityInstructions(t *testing.T) {
	mint := newKey(t).PublicKey()
	delegate := newKey(t).PublicKey()
	authority := newKey(t).PublicKey()

	approve, err := ApproveCollectionAuthorityInstruction(mint, delegate, authority)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	revoke, err := RevokeCollectionAuthorityInstruction(mint, delegate, authority)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, err := FindCollectionAuthorityRecord(mint, delegate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, ix := range map[string]solana.Instruction{"approve": approve, "revoke": revoke} {
		if !ix.ProgramID().Equals(MetadataProgramID) {
			t.Errorf("%s: expected metadata program", name)
		}
		if !ix.Accounts()[0].PublicKey.Equals(record) {
			t.Errorf("%s: expected authority record as first account", name)
		}
	}

	data, _ := approve.Data()
	if len(data) != 1 || data[0] != approveCollectionAuthorityIx {
		t.Errorf("unexpected approve data: %v", data)
	}
	data, _ = revoke.Data()
	if len(data) != 1 || data[0] != revokeCollectionAuthorityIx {
		t.Errorf("unexpected revoke data: %v", data)
	}

	signer := approve.Accounts()[2]
	if !signer.IsSigner || !signer.PublicKey.Equals(authority) {
		t.Error("expected update authority to sign approve")
	}
}
