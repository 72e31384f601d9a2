package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"

	"github.com/chinmay1088/helius-tools/api"
	"github.com/chinmay1088/helius-tools/crypto"
)

const (
	// DirName is the directory under $HOME holding wallet and config state
	DirName = ".helius-tools"

	vaultFile   = "wallet.vault"
	sessionFile = "session.json"
	clusterFile = "cluster.txt"
	apiKeyFile  = "api-key.txt"

	// Session duration in minutes
	SessionDuration = 30
)

var (
	ErrLocked        = errors.New("wallet is locked")
	ErrNoVault       = errors.New("no wallet found, run 'helius-tools init' first")
	ErrInvalidPhrase = errors.New("invalid recovery phrase")
)

// SessionData keeps a wallet unlocked across CLI invocations
type SessionData struct {
	Token      string    `json:"token"`
	Mnemonic   string    `json:"mnemonic"`
	Expiration time.Time `json:"expiration"`
}

// Manager owns the encrypted vault, the unlock session and the CLI config
// files kept next to them
type Manager struct {
	dir      string
	mu       sync.Mutex
	mnemonic string
	unlocked bool
	now      func() time.Time
}

// NewManager returns a manager rooted at ~/.helius-tools
func NewManager() (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewManagerAt(filepath.Join(home, DirName)), nil
}

// NewManagerAt returns a manager rooted at dir
func NewManagerAt(dir string) *Manager {
	return &Manager{dir: dir, now: time.Now}
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.dir, name)
}

func generateSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

func (m *Manager) createSession() error {
	token, err := generateSessionToken()
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}

	data, err := json.Marshal(SessionData{
		Token:      token,
		Mnemonic:   m.mnemonic,
		Expiration: m.now().Add(SessionDuration * time.Minute),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.path(sessionFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// loadSession restores an unexpired session. Corrupt or expired sessions
// are removed.
func (m *Manager) loadSession() bool {
	data, err := os.ReadFile(m.path(sessionFile))
	if err != nil {
		return false
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		os.Remove(m.path(sessionFile))
		return false
	}

	if m.now().After(session.Expiration) || session.Mnemonic == "" {
		os.Remove(m.path(sessionFile))
		return false
	}

	m.mnemonic = session.Mnemonic
	m.unlocked = true
	return true
}

// ensureUnlocked must be called with mu held
func (m *Manager) ensureUnlocked() error {
	if m.unlocked && m.mnemonic != "" {
		return nil
	}
	if m.loadSession() {
		return nil
	}
	return ErrLocked
}

// Initialize creates a wallet with a fresh 24 word recovery phrase
func (m *Manager) Initialize(password string) error {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	return m.store(mnemonic, password)
}

// ImportFromMnemonic replaces the wallet with one restored from mnemonic
func (m *Manager) ImportFromMnemonic(mnemonic, password string) error {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return ErrInvalidPhrase
	}
	return m.store(mnemonic, password)
}

func (m *Manager) store(mnemonic, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	vault, err := crypto.Seal(crypto.Secrets{Mnemonic: mnemonic}, password)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}

	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := vault.Save(m.path(vaultFile)); err != nil {
		return err
	}

	m.mnemonic = mnemonic
	m.unlocked = true

	if err := m.createSession(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Unlock decrypts the vault and starts a session
func (m *Manager) Unlock(password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	vault, err := crypto.LoadVault(m.path(vaultFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoVault
		}
		return fmt.Errorf("failed to load vault: %w", err)
	}

	secrets, err := vault.Open(password)
	if err != nil {
		return err
	}

	m.mnemonic = secrets.Mnemonic
	m.unlocked = true

	if err := m.createSession(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ChangePassword re-encrypts the vault under newPassword
func (m *Manager) ChangePassword(oldPassword, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	vault, err := crypto.LoadVault(m.path(vaultFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoVault
		}
		return fmt.Errorf("failed to load vault: %w", err)
	}

	rekeyed, err := vault.Rekey(oldPassword, newPassword)
	if err != nil {
		return err
	}
	return rekeyed.Save(m.path(vaultFile))
}

// Lock forgets the mnemonic and removes the session
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unlocked = false
	m.mnemonic = ""
	os.Remove(m.path(sessionFile))
}

func (m *Manager) IsUnlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureUnlocked() == nil
}

// GetMnemonic returns the recovery phrase of an unlocked wallet
func (m *Manager) GetMnemonic() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureUnlocked(); err != nil {
		return "", err
	}
	return m.mnemonic, nil
}

// GetSigner derives the wallet keypair at SolanaDerivationPath
func (m *Manager) GetSigner() (solana.PrivateKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureUnlocked(); err != nil {
		return nil, err
	}

	seed := bip39.NewSeed(m.mnemonic, "")
	key, err := deriveSolanaKey(seed, SolanaDerivationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive Solana key: %w", err)
	}
	return key, nil
}

// GetAddress returns the public key of the wallet signer
func (m *Manager) GetAddress() (solana.PublicKey, error) {
	key, err := m.GetSigner()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}

func (m *Manager) VaultExists() bool {
	_, err := os.Stat(m.path(vaultFile))
	return err == nil
}

// Cluster returns the saved cluster, mainnet when none or an unknown one is saved
func (m *Manager) Cluster() string {
	data, err := os.ReadFile(m.path(clusterFile))
	if err != nil {
		return api.ClusterMainnet
	}

	cluster := strings.TrimSpace(string(data))
	if cluster != api.ClusterMainnet && cluster != api.ClusterDevnet {
		return api.ClusterMainnet
	}
	return cluster
}

func (m *Manager) SetCluster(cluster string) error {
	if cluster != api.ClusterMainnet && cluster != api.ClusterDevnet {
		return fmt.Errorf("invalid cluster %q, use %s or %s", cluster, api.ClusterMainnet, api.ClusterDevnet)
	}
	return m.writeConfig(clusterFile, cluster)
}

// APIKey returns the saved Helius API key or an empty string
func (m *Manager) APIKey() string {
	data, err := os.ReadFile(m.path(apiKeyFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (m *Manager) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key is empty")
	}
	return m.writeConfig(apiKeyFile, key)
}

func (m *Manager) writeConfig(name, value string) error {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(m.path(name), []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
