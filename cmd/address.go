package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show wallet address",
	Long: `Show the Solana address of your wallet signer.

Example:
  helius-tools address`,
	Args: cobra.NoArgs,
	RunE: runAddress,
}

func runAddress(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	if err := requireUnlocked(manager); err != nil {
		return err
	}

	address, err := manager.GetAddress()
	if err != nil {
		return fmt.Errorf("failed to get address: %w", err)
	}

	cluster, err := resolveCluster(manager)
	if err != nil {
		return err
	}

	fmt.Println("🔑 Your wallet address:")
	fmt.Printf("🌐 Cluster: %s\n", clusterLabel(cluster))
	fmt.Println()
	fmt.Printf("🟣 Solana: %s\n", address)

	return nil
}

func clusterLabel(cluster string) string {
	if cluster == api.ClusterDevnet {
		return color.YellowString("Devnet")
	}
	return color.GreenString("Mainnet")
}
