package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

const (
	// SolanaDerivationPath is the account path used by Phantom and the Solana CLI
	SolanaDerivationPath = "m/44'/501'/0'/0'"

	hardenedOffset = 0x80000000
)

// hdKey is a SLIP-10 ed25519 node
type hdKey struct {
	Key       []byte
	ChainCode []byte
	Depth     uint8
	ChildNum  uint32
}

// deriveSolanaKey derives an ed25519 keypair from a BIP-39 seed along path.
// Ed25519 under SLIP-10 only supports hardened children.
func deriveSolanaKey(seed []byte, path string) (solana.PrivateKey, error) {
	node, err := derivePath(seed, path)
	if err != nil {
		return nil, err
	}
	return solana.PrivateKey(ed25519.NewKeyFromSeed(node.Key)), nil
}

func derivePath(seed []byte, path string) (*hdKey, error) {
	indexes, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	node := newMasterKey(seed)
	for _, index := range indexes {
		node, err = deriveChild(node, index)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child: %w", err)
		}
	}
	return node, nil
}

func newMasterKey(seed []byte) *hdKey {
	hash := hmacSHA512([]byte("ed25519 seed"), seed)
	return &hdKey{
		Key:       hash[:32],
		ChainCode: hash[32:],
	}
}

func deriveChild(parent *hdKey, index uint32) (*hdKey, error) {
	if !isHardened(index) {
		return nil, fmt.Errorf("ed25519 derivation requires hardened index, got %d", index)
	}

	data := make([]byte, 0, 1+len(parent.Key)+4)
	data = append(data, 0x00)
	data = append(data, parent.Key...)
	data = binary.BigEndian.AppendUint32(data, index)

	hash := hmacSHA512(parent.ChainCode, data)
	return &hdKey{
		Key:       hash[:32],
		ChainCode: hash[32:],
		Depth:     parent.Depth + 1,
		ChildNum:  index,
	}, nil
}

func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func isHardened(index uint32) bool {
	return index >= hardenedOffset
}

// parsePath turns "m/44'/501'/0'/0'" into child indexes
func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid derivation path %q", path)
	}

	indexes := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		index, err := parseChildNum(part)
		if err != nil {
			return nil, fmt.Errorf("invalid derivation path %q: %w", path, err)
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

func parseChildNum(s string) (uint32, error) {
	hardened := strings.HasSuffix(s, "'") || strings.HasSuffix(s, "h")
	if hardened {
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	if hardened {
		return uint32(n) + hardenedOffset, nil
	}
	return uint32(n), nil
}
