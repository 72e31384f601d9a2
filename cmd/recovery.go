package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chinmay1088/helius-tools/wallet"
)

var recoveryPhraseCmd = &cobra.Command{
	Use:   "recovery-phrase [show|import]",
	Short: "Manage recovery phrase",
	Long: `Manage your wallet's recovery phrase (mnemonic).

Commands:
  show    - Display the recovery phrase (wallet must be unlocked)
  import  - Restore the wallet from an existing 12 or 24 word phrase`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"show", "import"},
	RunE:      runRecoveryPhrase,
}

func runRecoveryPhrase(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	action := strings.ToLower(args[0])
	switch action {
	case "show":
		return showRecoveryPhrase(manager)
	case "import":
		return importRecoveryPhrase(manager)
	default:
		return fmt.Errorf("invalid action: %s. Use 'show' or 'import'", action)
	}
}

func showRecoveryPhrase(manager *wallet.Manager) error {
	if err := requireUnlocked(manager); err != nil {
		return err
	}

	if !confirm("The phrase controls every key of this wallet. Print it to the terminal?") {
		fmt.Println("❌ Cancelled")
		return nil
	}

	mnemonic, err := manager.GetMnemonic()
	if err != nil {
		return fmt.Errorf("failed to get mnemonic: %w", err)
	}

	fmt.Println()
	fmt.Println("🔐 Recovery Phrase:")
	fmt.Println()
	fmt.Printf("   %s\n", mnemonic)
	fmt.Println()
	fmt.Println("⚠️  Security Warning:")
	fmt.Println("   - Keep this phrase secure and private")
	fmt.Println("   - Anyone with this phrase can access your funds")
	fmt.Println("   - Never share it with anyone")

	return nil
}

func importRecoveryPhrase(manager *wallet.Manager) error {
	if manager.VaultExists() {
		return fmt.Errorf("wallet already exists. Remove %s/wallet.vault first", manager.Dir())
	}

	fmt.Println("📝 Import Wallet from Recovery Phrase")
	fmt.Println()

	fmt.Print("Enter recovery phrase (input hidden): ")
	phrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read mnemonic: %w", err)
	}
	mnemonic := string(phrase)

	password, err := readNewPassword()
	if err != nil {
		return err
	}

	if err := manager.ImportFromMnemonic(mnemonic, password); err != nil {
		return fmt.Errorf("failed to import wallet: %w", err)
	}

	address, err := manager.GetAddress()
	if err != nil {
		return fmt.Errorf("failed to derive address: %w", err)
	}

	fmt.Println("✅ Wallet imported successfully!")
	fmt.Printf("📍 Address: %s\n", address)
	fmt.Printf("⏱  Unlocked for %d minutes\n", wallet.SessionDuration)

	return nil
}
