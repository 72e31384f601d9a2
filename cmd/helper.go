package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
	chain "github.com/chinmay1088/helius-tools/chains/solana"
	"github.com/chinmay1088/helius-tools/wallet"
)

var helperJSONFlag bool

var helperCmd = &cobra.Command{
	Use:   "helper",
	Short: "Network helpers",
	Long: `Network level helpers: throughput, airdrops, balances, stake
accounts, token holders and priority fee estimates.

Examples:
  helius-tools helper tps
  helius-tools helper balance
  helius-tools helper airdrop 2 --cluster devnet
  helius-tools helper holders <mint>
  helius-tools helper fees <account> <account>`,
}

var helperTPSCmd = &cobra.Command{
	Use:   "tps",
	Short: "Show current transactions per second",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		tps, err := client.Helpers.GetCurrentTPS(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("⚡ Current TPS: %.0f\n", tps)
		return nil
	},
}

var helperBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the SOL balance of an address or your wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, client, err := setup()
		if err != nil {
			return err
		}

		address, err := addressOrWallet(manager, args)
		if err != nil {
			return err
		}

		balance, err := client.Helpers.GetBalance(cmd.Context(), address)
		if err != nil {
			return fmt.Errorf("failed to fetch balance: %w", err)
		}

		cluster, _ := resolveCluster(manager)
		fmt.Printf("🟣 Solana (%s): %s\n", clusterLabel(cluster), chain.FormatBalance(balance))
		if balance == 0 {
			fmt.Println("   ℹ️ Note: This account doesn't exist on-chain yet. Send SOL to this address to activate it.")
		}
		fmt.Printf("   📍 Address: %s\n", address)
		return nil
	},
}

var helperAirdropCmd = &cobra.Command{
	Use:   "airdrop [amount]",
	Short: "Request devnet SOL for your wallet (default 1 SOL)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, client, err := setup()
		if err != nil {
			return err
		}

		cluster, err := resolveCluster(manager)
		if err != nil {
			return err
		}
		if cluster != api.ClusterDevnet {
			return fmt.Errorf("airdrops are only available on devnet. Pass --cluster devnet or run 'helius-tools config cluster devnet'")
		}

		amount := "1"
		if len(args) == 1 {
			amount = args[0]
		}
		lamports, err := chain.SOLToLamports(amount)
		if err != nil {
			return err
		}

		address, err := addressOrWallet(manager, nil)
		if err != nil {
			return err
		}

		sig, err := client.Helpers.Airdrop(cmd.Context(), address, lamports)
		if err != nil {
			return fmt.Errorf("airdrop failed: %w", err)
		}

		fmt.Printf("🪂 Requested %s for %s\n", chain.FormatBalance(lamports), address)
		fmt.Printf("📝 Signature: %s\n", sig)
		fmt.Printf("🔗 Explorer: %s\n", explorerURL(sig.String(), cluster))
		return nil
	},
}

var helperStakeCmd = &cobra.Command{
	Use:   "stake [address]",
	Short: "List stake accounts withdrawable by an address or your wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, client, err := setup()
		if err != nil {
			return err
		}

		address, err := addressOrWallet(manager, args)
		if err != nil {
			return err
		}

		var accounts []api.ProgramAccount
		err = withSpinner("Scanning stake accounts...", func() error {
			accounts, err = client.Helpers.GetStakeAccounts(cmd.Context(), address)
			return err
		})
		if err != nil {
			return err
		}
		return printProgramAccounts("🥩 stake accounts", accounts)
	},
}

var helperHoldersCmd = &cobra.Command{
	Use:   "holders [mint]",
	Short: "List the token accounts of a mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		mint, err := chain.ParseAddress(args[0])
		if err != nil {
			return fmt.Errorf("invalid mint: %w", err)
		}

		var accounts []api.ProgramAccount
		err = withSpinner("Scanning token accounts...", func() error {
			accounts, err = client.Helpers.GetTokenHolders(cmd.Context(), mint)
			return err
		})
		if err != nil {
			return err
		}
		return printProgramAccounts("👥 token accounts", accounts)
	},
}

var helperFeesCmd = &cobra.Command{
	Use:   "fees [account...]",
	Short: "Estimate priority fees for transactions touching accounts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		accounts := splitList(args)
		if _, err := chain.ParseAddresses(accounts); err != nil {
			return err
		}

		estimate, err := client.Helpers.GetPriorityFeeEstimate(cmd.Context(), accounts)
		if err != nil {
			return err
		}
		if helperJSONFlag {
			return printJSON(estimate)
		}

		fmt.Println("💸 Priority fees (micro-lamports per compute unit)")
		if estimate.PriorityFeeEstimate != nil {
			fmt.Printf("   Estimate:   %.0f\n", *estimate.PriorityFeeEstimate)
		}
		if levels := estimate.PriorityFeeLevels; levels != nil {
			fmt.Printf("   Min:        %.0f\n", levels.Min)
			fmt.Printf("   Low:        %.0f\n", levels.Low)
			fmt.Printf("   Medium:     %.0f\n", levels.Medium)
			fmt.Printf("   High:       %.0f\n", levels.High)
			fmt.Printf("   Very high:  %.0f\n", levels.VeryHigh)
			fmt.Printf("   Unsafe max: %s\n", color.RedString("%.0f", levels.UnsafeMax))
		}
		return nil
	},
}

func init() {
	helperCmd.PersistentFlags().BoolVar(&helperJSONFlag, "json", false, "print raw JSON")

	helperCmd.AddCommand(
		helperTPSCmd,
		helperBalanceCmd,
		helperAirdropCmd,
		helperStakeCmd,
		helperHoldersCmd,
		helperFeesCmd,
	)
}

// addressOrWallet parses the first argument or falls back to the unlocked wallet
func addressOrWallet(manager *wallet.Manager, args []string) (solana.PublicKey, error) {
	if len(args) > 0 {
		return chain.ParseAddress(args[0])
	}
	if err := requireUnlocked(manager); err != nil {
		return solana.PublicKey{}, fmt.Errorf("no address given and %w", err)
	}
	return manager.GetAddress()
}

func printProgramAccounts(title string, accounts []api.ProgramAccount) error {
	if helperJSONFlag {
		return printJSON(accounts)
	}

	var total uint64
	for _, account := range accounts {
		total += account.Lamports
	}

	fmt.Printf("%d %s, %s total\n", len(accounts), title, chain.FormatBalance(total))
	fmt.Println()
	for _, account := range accounts {
		fmt.Printf("   %s  %s\n", account.Pubkey, chain.FormatBalance(account.Lamports))
	}
	return nil
}
