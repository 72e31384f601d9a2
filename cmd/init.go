package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new wallet",
	Long: `Initialize a new signing wallet with a secure recovery phrase.

This command will:
  - Generate a new 24-word recovery phrase
  - Create an encrypted vault under ~/.helius-tools
  - Derive the Solana signer at m/44'/501'/0'/0'`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	if manager.VaultExists() {
		return fmt.Errorf("wallet already exists. Remove %s/wallet.vault to create a new wallet", manager.Dir())
	}

	fmt.Println("🚀 Initializing helius-tools wallet")
	fmt.Println()

	password, err := readNewPassword()
	if err != nil {
		return err
	}

	fmt.Println("Generating wallet...")
	if err := manager.Initialize(password); err != nil {
		return fmt.Errorf("failed to initialize wallet: %w", err)
	}

	mnemonic, err := manager.GetMnemonic()
	if err != nil {
		return fmt.Errorf("failed to get recovery phrase: %w", err)
	}

	address, err := manager.GetAddress()
	if err != nil {
		return fmt.Errorf("failed to derive address: %w", err)
	}

	fmt.Println("✅ Wallet initialized successfully!")
	fmt.Println()
	fmt.Println("🔐 Recovery Phrase (24 words):")
	fmt.Println()
	fmt.Printf("   %s\n", mnemonic)
	fmt.Println()
	fmt.Printf("📍 Address: %s\n", address)
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT:")
	fmt.Println("   - Write down this recovery phrase and store it securely")
	fmt.Println("   - Anyone with this phrase can access your funds")
	fmt.Println("   - This is the only way to recover your wallet")
	fmt.Println()
	fmt.Println("🔑 Next steps:")
	fmt.Println("   - Run 'helius-tools config api-key <key>' to save your Helius API key")
	fmt.Println("   - Run 'helius-tools helper balance' to check your balance")

	return nil
}
