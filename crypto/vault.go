package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/scrypt"
)

const (
	ScryptN = 32768 // 2^15
	ScryptR = 8
	ScryptP = 1
	KeyLen  = 32 // AES-256

	saltLen  = 32
	nonceLen = 12

	// VaultVersion is written into every sealed vault
	VaultVersion = 2
)

var (
	ErrWrongPassword = errors.New("wrong password or corrupted vault")
	ErrVaultVersion  = errors.New("unsupported vault version")
)

// Vault is the on-disk form of the encrypted wallet secrets
type Vault struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

// Secrets is what a vault protects
type Secrets struct {
	Mnemonic string `json:"mnemonic"`
}

// Seal encrypts secrets under a key derived from password with scrypt
func Seal(secrets Secrets, password string) (*Vault, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize secrets: %w", err)
	}
	defer clearBytes(plaintext)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	v := &Vault{Version: VaultVersion, Salt: salt, Nonce: nonce}
	v.Data = aead.Seal(nil, nonce, plaintext, v.additionalData())
	return v, nil
}

// Open decrypts the vault. A wrong password returns ErrWrongPassword.
func (v *Vault) Open(password string) (*Secrets, error) {
	if v.Version != VaultVersion {
		return nil, fmt.Errorf("%w: %d", ErrVaultVersion, v.Version)
	}

	key, err := deriveKey(password, v.Salt)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, v.Nonce, v.Data, v.additionalData())
	if err != nil {
		return nil, ErrWrongPassword
	}
	defer clearBytes(plaintext)

	var secrets Secrets
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, fmt.Errorf("failed to deserialize secrets: %w", err)
	}
	return &secrets, nil
}

// Rekey re-seals the vault contents under a new password
func (v *Vault) Rekey(oldPassword, newPassword string) (*Vault, error) {
	secrets, err := v.Open(oldPassword)
	if err != nil {
		return nil, err
	}
	return Seal(*secrets, newPassword)
}

// Save writes the vault to path readable by the owner only
func (v *Vault) Save(path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize vault: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write vault: %w", err)
	}
	return nil
}

// LoadVault reads a vault written by Save
func LoadVault(path string) (*Vault, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var v Vault
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vault: %w", err)
	}
	return &v, nil
}

// the version is bound to the ciphertext
func (v *Vault) additionalData() []byte {
	return []byte(fmt.Sprintf("helius-tools/vault/v%d", v.Version))
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	return key, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
