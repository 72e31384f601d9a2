package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
)

var configCmd = &cobra.Command{
	Use:   "config [api-key|cluster] [value]",
	Short: "Show or change saved settings",
	Long: `Show the saved settings or change one of them.

Settings are stored under ~/.helius-tools and can be overridden per
command with --api-key, $HELIUS_API_KEY and --cluster.

Examples:
  helius-tools config                    # Show current settings
  helius-tools config api-key <key>      # Save the Helius API key
  helius-tools config cluster devnet     # Switch to devnet`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return showConfig(manager.Cluster(), manager.APIKey())
	}

	if len(args) != 2 {
		return fmt.Errorf("usage: helius-tools config [api-key|cluster] [value]")
	}

	switch strings.ToLower(args[0]) {
	case "api-key":
		if err := manager.SetAPIKey(args[1]); err != nil {
			return err
		}
		fmt.Println("✅ API key saved")
	case "cluster":
		cluster := strings.ToLower(args[1])
		if err := manager.SetCluster(cluster); err != nil {
			return err
		}
		fmt.Printf("🌐 Switched to %s\n", clusterLabel(cluster))
		if cluster == api.ClusterDevnet {
			fmt.Println()
			fmt.Println("⚠️  You are now on DEVNET")
			fmt.Println("   - Airdrops are available with 'helius-tools helper airdrop'")
			fmt.Println("   - Jito tips only land on mainnet")
		}
	default:
		return fmt.Errorf("unknown setting: %s. Use 'api-key' or 'cluster'", args[0])
	}
	return nil
}

func showConfig(cluster, apiKey string) error {
	fmt.Printf("🌐 Cluster: %s\n", clusterLabel(cluster))
	if apiKey == "" {
		fmt.Printf("🔑 API key: %s\n", color.RedString("not set"))
	} else {
		fmt.Printf("🔑 API key: %s\n", maskKey(apiKey))
	}
	return nil
}

// maskKey keeps the first and last four characters of a key
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
