package crypto

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSealAndOpen(t *testing.T) {
	secrets := Secrets{Mnemonic: "abandon abandon about"}

	v, err := Seal(secrets, "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Version != VaultVersion {
		t.Errorf("expected version %d, got %d", VaultVersion, v.Version)
	}

	if len(v.Salt) != saltLen || len(v.Nonce) != nonceLen {
		t.Errorf("unexpected salt/nonce lengths: %d/%d", len(v.Salt), len(v.Nonce))
	}

	got, err := v.Open("correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *got != secrets {
		t.Errorf("expected %+v, got %+v", secrets, *got)
	}
}

func TestOpenWrongPassword(t *testing.T) {
	v, err := Seal(Secrets{Mnemonic: "words"}, "right")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := v.Open("wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestOpenRejectsTamperedVersion(t *testing.T) {
	v, err := Seal(Secrets{Mnemonic: "words"}, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v.Version = 1
	if _, err := v.Open("pw"); !errors.Is(err, ErrVaultVersion) {
		t.Errorf("expected ErrVaultVersion, got %v", err)
	}
}

func TestSaveAndLoadVault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.vault")

	v, err := Seal(Secrets{Mnemonic: "words"}, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.Save(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := LoadVault(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	secrets, err := loaded.Open("pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secrets.Mnemonic != "words" {
		t.Errorf("expected mnemonic 'words', got '%s'", secrets.Mnemonic)
	}
}

func TestRekey(t *testing.T) {
	v, err := Seal(Secrets{Mnemonic: "words"}, "old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rekeyed, err := v.Rekey("old", "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rekeyed.Open("old"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected old password to fail, got %v", err)
	}

	if _, err := v.Rekey("bad", "new"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}
