package wallet

import (
	"encoding/hex"
	"testing"
)

// SLIP-0010 ed25519 test vector 1
func TestDerivePathVector(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	tests := []struct {
		path      string
		key       string
		chainCode string
	}{
		{
			path:      "m",
			key:       "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7",
			chainCode: "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb",
		},
		{
			path:      "m/0'",
			key:       "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
			chainCode: "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69",
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			node, err := derivePath(seed, tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := hex.EncodeToString(node.Key); got != tt.key {
				t.Errorf("expected key %s, got %s", tt.key, got)
			}

			if got := hex.EncodeToString(node.ChainCode); got != tt.chainCode {
				t.Errorf("expected chain code %s, got %s", tt.chainCode, got)
			}
		})
	}
}

func TestDerivePathRejectsNormalIndex(t *testing.T) {
	if _, err := derivePath([]byte("seed"), "m/44'/501'/0/0"); err == nil {
		t.Error("expected error for a non-hardened index")
	}
}

func TestParsePath(t *testing.T) {
	indexes, err := parsePath(SolanaDerivationPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []uint32{44 + hardenedOffset, 501 + hardenedOffset, hardenedOffset, hardenedOffset}
	if len(indexes) != len(want) {
		t.Fatalf("expected %d indexes, got %d", len(want), len(indexes))
	}
	for i := range want {
		if indexes[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], indexes[i])
		}
	}

	for _, bad := range []string{"", "44'/501'", "m/x'", "m/2147483648'"} {
		if _, err := parsePath(bad); err == nil {
			t.Errorf("expected error for path %q", bad)
		}
	}
}

func TestDeriveSolanaKeyIsDeterministic(t *testing.T) {
	seed := []byte("0123456789abcdef0123456789abcdef")

	a, err := deriveSolanaKey(seed, SolanaDerivationPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := deriveSolanaKey(seed, SolanaDerivationPath)
	other, _ := deriveSolanaKey(seed, "m/44'/501'/1'/0'")

	if !a.PublicKey().Equals(b.PublicKey()) {
		t.Error("expected the same key for the same path")
	}

	if a.PublicKey().Equals(other.PublicKey()) {
		t.Error("expected different accounts to derive different keys")
	}

	if len(a) != 64 {
		t.Errorf("expected a 64 byte keypair, got %d", len(a))
	}
}
