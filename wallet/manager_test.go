package wallet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chinmay1088/helius-tools/api"
	"github.com/chinmay1088/helius-tools/crypto"
)

const testPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestInitializeAndUnlock(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerAt(dir)

	if m.VaultExists() {
		t.Fatal("expected no vault in a fresh directory")
	}

	if err := m.Initialize("pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !m.VaultExists() {
		t.Error("expected vault to be written")
	}

	mnemonic, err := m.GetMnemonic()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(strings.Fields(mnemonic)); n != 24 {
		t.Errorf("expected 24 words, got %d", n)
	}

	m.Lock()
	if m.IsUnlocked() {
		t.Fatal("expected wallet to be locked")
	}

	if err := m.Unlock("bad"); !errors.Is(err, crypto.ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	if err := m.Unlock("pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, _ := m.GetMnemonic()
	if again != mnemonic {
		t.Error("expected unlock to restore the same mnemonic")
	}
}

func TestSessionSurvivesNewManager(t *testing.T) {
	dir := t.TempDir()
	if err := NewManagerAt(dir).ImportFromMnemonic(testPhrase, "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewManagerAt(dir)
	if !m.IsUnlocked() {
		t.Fatal("expected the session to unlock a new manager")
	}

	first, err := NewManagerAt(dir).GetAddress()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := m.GetAddress()
	if !first.Equals(second) {
		t.Errorf("expected the same address, got %s and %s", first, second)
	}
}

func TestSessionExpires(t *testing.T) {
	dir := t.TempDir()
	if err := NewManagerAt(dir).ImportFromMnemonic(testPhrase, "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewManagerAt(dir)
	m.now = func() time.Time { return time.Now().Add(SessionDuration*time.Minute + time.Second) }

	if _, err := m.GetSigner(); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, sessionFile)); !os.IsNotExist(err) {
		t.Error("expected the expired session to be removed")
	}
}

func TestImportRejectsInvalidPhrase(t *testing.T) {
	m := NewManagerAt(t.TempDir())

	if err := m.ImportFromMnemonic("not a real phrase", "pw"); !errors.Is(err, ErrInvalidPhrase) {
		t.Errorf("expected ErrInvalidPhrase, got %v", err)
	}

	if m.VaultExists() {
		t.Error("expected no vault after a rejected import")
	}
}

func TestImportNormalizesWhitespace(t *testing.T) {
	m := NewManagerAt(t.TempDir())

	if err := m.ImportFromMnemonic("  abandon abandon abandon abandon abandon abandon\n abandon abandon abandon abandon abandon about ", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := m.GetMnemonic()
	if got != testPhrase {
		t.Errorf("expected normalized phrase, got '%s'", got)
	}
}

func TestUnlockWithoutVault(t *testing.T) {
	m := NewManagerAt(t.TempDir())

	if err := m.Unlock("pw"); !errors.Is(err, ErrNoVault) {
		t.Errorf("expected ErrNoVault, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	m := NewManagerAt(t.TempDir())
	if err := m.ImportFromMnemonic(testPhrase, "old"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.ChangePassword("old", "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Lock()
	if err := m.Unlock("old"); !errors.Is(err, crypto.ErrWrongPassword) {
		t.Errorf("expected old password to fail, got %v", err)
	}
	if err := m.Unlock("new"); err != nil {
		t.Errorf("expected new password to unlock, got %v", err)
	}
}

func TestClusterConfig(t *testing.T) {
	m := NewManagerAt(t.TempDir())

	if m.Cluster() != api.ClusterMainnet {
		t.Errorf("expected mainnet by default, got '%s'", m.Cluster())
	}

	if err := m.SetCluster(api.ClusterDevnet); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Cluster() != api.ClusterDevnet {
		t.Errorf("expected devnet, got '%s'", m.Cluster())
	}

	if err := m.SetCluster("testnet"); err == nil {
		t.Error("expected error for an unsupported cluster")
	}
}

func TestAPIKeyConfig(t *testing.T) {
	m := NewManagerAt(t.TempDir())

	if m.APIKey() != "" {
		t.Errorf("expected no key, got '%s'", m.APIKey())
	}

	if err := m.SetAPIKey("  key-1\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.APIKey() != "key-1" {
		t.Errorf("expected 'key-1', got '%s'", m.APIKey())
	}

	if err := m.SetAPIKey(" "); err == nil {
		t.Error("expected error for an empty key")
	}
}
