package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chinmay1088/helius-tools/api"
	"github.com/chinmay1088/helius-tools/wallet"
)

var (
	version = "0.1.0"
)

var (
	apiKeyFlag  string
	clusterFlag string
	verboseFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "helius-tools",
	Aliases: []string{"ht"},
	Short:   "Command-line client for the Helius Solana APIs",
	Long: `helius-tools talks to Helius from the terminal: digital asset queries,
compressed NFT minting, webhooks, smart transactions and network helpers.

Signing keys live in a local encrypted vault derived from a BIP-39
recovery phrase (m/44'/501'/0'/0'). Nothing secret leaves the machine.

Examples:
  helius-tools init                              # Create a wallet
  helius-tools config api-key <key>              # Save your Helius API key
  helius-tools asset owner <address>             # List assets of an owner
  helius-tools tx transfer 0.1 <address>         # Send SOL as a smart transaction
  helius-tools tx transfer 0.1 <address> --tip   # Send through a Jito bundle
  helius-tools webhook list                      # Show your webhooks
  helius-tools helper tps                        # Current network TPS`,
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Helius API key (default $HELIUS_API_KEY or saved key)")
	rootCmd.PersistentFlags().StringVar(&clusterFlag, "cluster", "", "cluster to use: mainnet or devnet (default saved cluster)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every request")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(recoveryPhraseCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(webhookCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(helperCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("helius-tools v%s\n", version)
	},
}

func newManager() (*wallet.Manager, error) {
	manager, err := wallet.NewManager()
	if err != nil {
		return nil, err
	}
	return manager, nil
}

func newLogger() *zap.Logger {
	if !verboseFlag {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// resolveAPIKey picks the flag, then $HELIUS_API_KEY, then the saved key
func resolveAPIKey(manager *wallet.Manager) (string, error) {
	key := strings.TrimSpace(apiKeyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("HELIUS_API_KEY"))
	}
	if key == "" {
		key = manager.APIKey()
	}
	if key == "" {
		return "", fmt.Errorf("no Helius API key. Pass --api-key, set HELIUS_API_KEY or run 'helius-tools config api-key <key>'")
	}
	return key, nil
}

func resolveCluster(manager *wallet.Manager) (string, error) {
	if clusterFlag == "" {
		return manager.Cluster(), nil
	}
	cluster := strings.ToLower(clusterFlag)
	if cluster != api.ClusterMainnet && cluster != api.ClusterDevnet {
		return "", fmt.Errorf("invalid cluster: %s. Use 'mainnet' or 'devnet'", clusterFlag)
	}
	return cluster, nil
}

// newClient builds the Helius client from flags and saved config
func newClient(manager *wallet.Manager) (*api.Client, error) {
	key, err := resolveAPIKey(manager)
	if err != nil {
		return nil, err
	}

	cluster, err := resolveCluster(manager)
	if err != nil {
		return nil, err
	}

	return api.NewClient(key,
		api.WithCluster(cluster),
		api.WithLogger(newLogger()),
	), nil
}

// setup returns the wallet manager and a client for commands that only read
func setup() (*wallet.Manager, *api.Client, error) {
	manager, err := newManager()
	if err != nil {
		return nil, nil, err
	}

	client, err := newClient(manager)
	if err != nil {
		return nil, nil, err
	}
	return manager, client, nil
}

// requireUnlocked is used by commands that sign
func requireUnlocked(manager *wallet.Manager) error {
	if !manager.VaultExists() {
		return wallet.ErrNoVault
	}
	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'helius-tools unlock' first")
	}
	return nil
}
