package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chinmay1088/helius-tools/wallet"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock wallet for session",
	Long: fmt.Sprintf(`Unlock your wallet for signing.
This command decrypts your vault and keeps it unlocked for %d minutes
or until you run 'helius-tools lock'.

Example:
  helius-tools unlock`, wallet.SessionDuration),
	RunE: runUnlock,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the wallet and end the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}
		manager.Lock()
		fmt.Println("🔒 Wallet locked")
		return nil
	},
}

var changePassword bool

func init() {
	unlockCmd.Flags().BoolVar(&changePassword, "change-password", false, "re-encrypt the vault under a new password")
}

func runUnlock(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	if !manager.VaultExists() {
		return wallet.ErrNoVault
	}

	if manager.IsUnlocked() && !changePassword {
		fmt.Println("✅ Wallet is already unlocked")
		return nil
	}

	password, err := readPassword("Enter your wallet password: ")
	if err != nil {
		return err
	}

	if changePassword {
		newPassword, err := readNewPassword()
		if err != nil {
			return err
		}
		if err := manager.ChangePassword(password, newPassword); err != nil {
			return fmt.Errorf("failed to change password: %w", err)
		}
		fmt.Println("✅ Password changed")
		password = newPassword
	}

	fmt.Println("Unlocking wallet...")
	if err := manager.Unlock(password); err != nil {
		return fmt.Errorf("failed to unlock wallet: %w", err)
	}

	fmt.Println("✅ Wallet unlocked successfully!")
	fmt.Println("💡 Use 'helius-tools address' to see your address")

	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// readNewPassword prompts twice and enforces a minimum length
func readNewPassword() (string, error) {
	password, err := readPassword("Enter a password for your wallet: ")
	if err != nil {
		return "", err
	}

	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters long")
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}

	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}
