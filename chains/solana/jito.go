package solana

import (
	"math/rand"

	"github.com/gagliardetto/solana-go"
)

// JitoTipAccounts are the accounts the Jito block engine accepts tips on
var JitoTipAccounts = []solana.PublicKey{
	solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
	solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"),
	solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
	solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
	solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
	solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
	solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
	solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
}

// RandomTipAccount spreads tips across the tip accounts
func RandomTipAccount() solana.PublicKey {
	return JitoTipAccounts[rand.Intn(len(JitoTipAccounts))]
}

// IsTipAccount reports whether key is one of the Jito tip accounts
func IsTipAccount(key solana.PublicKey) bool {
	for _, account := range JitoTipAccounts {
		if account.Equals(key) {
			return true
		}
	}
	return false
}

// TipInstruction transfers lamports from the payer to a random tip account
func TipInstruction(payer solana.PublicKey, lamports uint64) solana.Instruction {
	return TransferInstruction(payer, RandomTipAccount(), lamports)
}
