package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
	chain "github.com/chinmay1088/helius-tools/chains/solana"
	"github.com/chinmay1088/helius-tools/wallet"
)

var (
	tipFlag        bool
	tipAmountFlag  uint64
	regionFlag     string
	skipPreflight  bool
	maxRetriesFlag uint
)

// transferFee is the base signature fee, used for the balance check only
const transferFee = uint64(5000)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Send smart transactions",
	Long: `Build, send and confirm smart transactions. Compute unit limit and
priority fee are set from a simulation and the Helius fee estimate.

Examples:
  helius-tools tx transfer 0.5 <address>
  helius-tools tx transfer 0.5 <address> --tip --region Tokyo
  helius-tools tx compute-units 0.5 <address>
  helius-tools tx poll <signature>`,
}

var txTransferCmd = &cobra.Command{
	Use:   "transfer [amount] [address]",
	Short: "Send SOL",
	Args:  cobra.ExactArgs(2),
	RunE:  runTransfer,
}

var txComputeUnitsCmd = &cobra.Command{
	Use:   "compute-units [amount] [address]",
	Short: "Simulate a transfer and print the compute units it consumes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, client, err := setup()
		if err != nil {
			return err
		}
		if err := requireUnlocked(manager); err != nil {
			return err
		}

		signer, instruction, err := transferFromArgs(manager, args[0], args[1])
		if err != nil {
			return err
		}

		units, err := client.Transactions.GetComputeUnits(cmd.Context(),
			[]solana.Instruction{instruction}, signer.PublicKey(), nil, []solana.PrivateKey{signer})
		if err != nil {
			return err
		}
		if units == nil {
			return fmt.Errorf("simulation returned no compute units")
		}

		fmt.Printf("⚙️  Consumed: %d units\n", *units)
		fmt.Printf("   Limit:    %d units\n", chain.ComputeUnitLimit(*units))
		return nil
	},
}

var txPollCmd = &cobra.Command{
	Use:   "poll [signature]",
	Short: "Wait until a transaction is confirmed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, client, err := setup()
		if err != nil {
			return err
		}

		sig, err := solana.SignatureFromBase58(args[0])
		if err != nil {
			return fmt.Errorf("invalid signature: %w", err)
		}

		err = withSpinner("Waiting for confirmation...", func() error {
			_, err := client.Transactions.PollTransactionConfirmation(cmd.Context(), sig)
			return err
		})
		if err != nil {
			return err
		}

		cluster, _ := resolveCluster(manager)
		fmt.Println("✅ Transaction confirmed")
		fmt.Printf("🔗 Explorer: %s\n", explorerURL(sig.String(), cluster))
		return nil
	},
}

func init() {
	txTransferCmd.Flags().BoolVar(&tipFlag, "tip", false, "send through a Jito bundle with a tip")
	txTransferCmd.Flags().Uint64Var(&tipAmountFlag, "tip-amount", api.DefaultTipAmount, "Jito tip in lamports")
	txTransferCmd.Flags().StringVar(&regionFlag, "region", api.DefaultTipRegion, "Jito block engine region: Default, NY, Amsterdam, Frankfurt, Tokyo")
	txTransferCmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "skip the preflight check")
	txTransferCmd.Flags().UintVar(&maxRetriesFlag, "max-retries", 0, "RPC send retries (node default when 0)")

	txCmd.AddCommand(txTransferCmd, txComputeUnitsCmd, txPollCmd)
}

// transferFromArgs parses amount and recipient and builds the transfer
// instruction from the wallet signer
func transferFromArgs(manager *wallet.Manager, amount, address string) (solana.PrivateKey, solana.Instruction, error) {
	recipient, err := chain.ParseAddress(address)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid Solana address: %w", err)
	}

	lamports, err := chain.SOLToLamports(amount)
	if err != nil {
		return nil, nil, err
	}
	if lamports == 0 {
		return nil, nil, fmt.Errorf("amount must be greater than zero")
	}

	signer, err := manager.GetSigner()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get signer: %w", err)
	}

	return signer, chain.TransferInstruction(signer.PublicKey(), recipient, lamports), nil
}

func runTransfer(cmd *cobra.Command, args []string) error {
	manager, client, err := setup()
	if err != nil {
		return err
	}
	if err := requireUnlocked(manager); err != nil {
		return err
	}

	cluster, err := resolveCluster(manager)
	if err != nil {
		return err
	}

	signer, instruction, err := transferFromArgs(manager, args[0], args[1])
	if err != nil {
		return err
	}
	lamports, _ := chain.SOLToLamports(args[0])

	balance, err := client.Helpers.GetBalance(cmd.Context(), signer.PublicKey())
	if err != nil {
		return fmt.Errorf("failed to check balance: %w", err)
	}

	required := lamports + transferFee
	if tipFlag {
		required += tipAmountFlag
	}
	if balance < required {
		return fmt.Errorf("insufficient funds. You're trying to send %s plus fees but your balance is only %s. Deposit more SOL to %s first",
			chain.FormatBalance(lamports), chain.FormatBalance(balance), signer.PublicKey())
	}

	fmt.Println("📊 Transaction Details:")
	fmt.Printf("   From:    %s\n", signer.PublicKey())
	fmt.Printf("   To:      %s\n", args[1])
	fmt.Printf("   Amount:  %s\n", chain.FormatBalance(lamports))
	if tipFlag {
		fmt.Printf("   Tip:     %s (%s)\n", chain.FormatBalance(tipAmountFlag), regionFlag)
	}
	fmt.Printf("   Cluster: %s\n", clusterLabel(cluster))
	fmt.Println()

	prompt := "🚨 Real funds will be sent. Confirm?"
	if cluster == api.ClusterDevnet {
		prompt = "⚠️  Devnet transfer. Confirm?"
	}
	if !confirm(prompt) {
		fmt.Println("❌ Transaction cancelled by user")
		return nil
	}

	instructions := []solana.Instruction{instruction}
	signers := []solana.PrivateKey{signer}

	var sig string
	if tipFlag {
		err = withSpinner("Sending bundle...", func() error {
			sig, err = client.Transactions.SendSmartTransactionWithTip(cmd.Context(), instructions, signers, nil, api.TipOptions{
				Amount: tipAmountFlag,
				Region: regionFlag,
			})
			return err
		})
	} else {
		opts := api.SendOptions{SkipPreflight: skipPreflight}
		if maxRetriesFlag > 0 {
			opts.MaxRetries = &maxRetriesFlag
		}
		err = withSpinner("Sending transaction...", func() error {
			s, err := client.Transactions.SendSmartTransaction(cmd.Context(), instructions, signers, nil, opts)
			sig = s.String()
			return err
		})
	}
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	fmt.Println("✅ Transaction sent successfully!")
	fmt.Printf("📝 Signature: %s\n", sig)
	fmt.Printf("🔗 Explorer: %s\n", explorerURL(sig, cluster))
	return nil
}
