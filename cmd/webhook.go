package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
	chain "github.com/chinmay1088/helius-tools/chains/solana"
)

var (
	webhookURLFlag     string
	webhookTypeFlag    string
	webhookTxTypes     []string
	webhookAddresses   []string
	webhookAuthHeader  string
	webhookPatchFlag   string
	webhookCreators    []string
	webhookCollections []string
	webhookJSONFlag    bool
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage Helius webhooks",
	Long: `Create, inspect and change the webhooks of your Helius account.

Examples:
  helius-tools webhook list
  helius-tools webhook create --url https://example.com/hook --address <addr> --type NFT_SALE
  helius-tools webhook edit <id> --patch '{"webhookURL":"https://example.com/new"}'
  helius-tools webhook append <id> <addr> <addr>
  helius-tools webhook collection --collection <collection> --url https://example.com/hook`,
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all webhooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		webhooks, err := client.Webhooks.GetAllWebhooks(cmd.Context())
		if err != nil {
			return err
		}
		if webhookJSONFlag {
			return printJSON(webhooks)
		}

		fmt.Printf("🪝 %d webhooks\n", len(webhooks))
		fmt.Println()
		for _, w := range webhooks {
			printWebhook(w)
		}
		return nil
	},
}

var webhookGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		webhook, err := client.Webhooks.GetWebhookByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return showWebhook(webhook)
	},
}

var webhookCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a webhook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		addresses := splitList(webhookAddresses)
		if _, err := chain.ParseAddresses(addresses); err != nil {
			return err
		}

		webhook, err := client.Webhooks.CreateWebhook(cmd.Context(), api.CreateWebhookRequest{
			WebhookURL:       webhookURLFlag,
			TransactionTypes: transactionTypes(),
			AccountAddresses: addresses,
			WebhookType:      api.WebhookType(webhookTypeFlag),
			AuthHeader:       webhookAuthHeader,
		})
		if err != nil {
			return err
		}

		fmt.Println("✅ Webhook created")
		return showWebhook(webhook)
	},
}

var webhookEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change fields of a webhook with a JSON patch",
	Long: `Change fields of a webhook. The patch is a JSON object holding only
the fields to change: webhookURL, transactionTypes, accountAddresses,
webhookType, authHeader, txnStatus, encoding. Use --patch - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		data, err := readPatch(webhookPatchFlag)
		if err != nil {
			return err
		}

		patch, err := api.ParseWebhookPatch(data)
		if err != nil {
			return err
		}

		webhook, err := client.Webhooks.EditWebhook(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}

		fmt.Println("✅ Webhook updated")
		return showWebhook(webhook)
	},
}

var webhookAppendCmd = &cobra.Command{
	Use:   "append [id] [address...]",
	Short: "Watch more addresses",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeAddresses(cmd, args[0], args[1:], true)
	},
}

var webhookRemoveCmd = &cobra.Command{
	Use:   "remove [id] [address...]",
	Short: "Stop watching addresses",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeAddresses(cmd, args[0], args[1:], false)
	},
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		if !confirm(fmt.Sprintf("Delete webhook %s?", args[0])) {
			fmt.Println("❌ Cancelled")
			return nil
		}

		if err := client.Webhooks.DeleteWebhook(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("🗑  Webhook deleted")
		return nil
	},
}

var webhookCollectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Create a webhook watching every mint of a collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		req := api.CreateCollectionWebhookRequest{
			CollectionQuery: api.CollectionQuery{
				FirstVerifiedCreators:       splitList(webhookCreators),
				VerifiedCollectionAddresses: splitList(webhookCollections),
			},
			WebhookURL:       webhookURLFlag,
			TransactionTypes: transactionTypes(),
			WebhookType:      api.WebhookType(webhookTypeFlag),
			AuthHeader:       webhookAuthHeader,
		}

		var webhook *api.Webhook
		err = withSpinner("Collecting mints...", func() error {
			webhook, err = client.Webhooks.CreateCollectionWebhook(cmd.Context(), req)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Printf("✅ Webhook created for %d mints\n", len(webhook.AccountAddresses))
		return showWebhook(webhook)
	},
}

func init() {
	webhookCmd.PersistentFlags().BoolVar(&webhookJSONFlag, "json", false, "print raw JSON")

	for _, c := range []*cobra.Command{webhookCreateCmd, webhookCollectionCmd} {
		c.Flags().StringVar(&webhookURLFlag, "url", "", "URL receiving the events")
		c.Flags().StringVar(&webhookTypeFlag, "webhook-type", "", "enhanced, raw, discord or their Devnet variants (default enhanced for the cluster)")
		c.Flags().StringSliceVar(&webhookTxTypes, "type", nil, "transaction types to deliver (default ANY)")
		c.Flags().StringVar(&webhookAuthHeader, "auth-header", "", "Authorization header sent with each event")
		c.MarkFlagRequired("url")
	}
	webhookCreateCmd.Flags().StringSliceVar(&webhookAddresses, "address", nil, "account address to watch, repeatable")
	webhookCollectionCmd.Flags().StringSliceVar(&webhookCreators, "creator", nil, "first verified creator")
	webhookCollectionCmd.Flags().StringSliceVar(&webhookCollections, "collection", nil, "verified collection address")
	webhookEditCmd.Flags().StringVar(&webhookPatchFlag, "patch", "", "JSON patch, or - for stdin")
	webhookEditCmd.MarkFlagRequired("patch")

	webhookCmd.AddCommand(
		webhookCreateCmd,
		webhookEditCmd,
		webhookAppendCmd,
		webhookRemoveCmd,
		webhookDeleteCmd,
		webhookListCmd,
		webhookGetCmd,
		webhookCollectionCmd,
	)
}

func transactionTypes() []api.TransactionType {
	values := splitList(webhookTxTypes)
	if len(values) == 0 {
		return nil
	}
	types := make([]api.TransactionType, 0, len(values))
	for _, v := range values {
		types = append(types, api.TransactionType(strings.ToUpper(v)))
	}
	return types
}

func readPatch(value string) ([]byte, error) {
	if value != "-" {
		return []byte(value), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read patch: %w", err)
	}
	return data, nil
}

func changeAddresses(cmd *cobra.Command, id string, addresses []string, add bool) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	addresses = splitList(addresses)
	if _, err := chain.ParseAddresses(addresses); err != nil {
		return err
	}

	var webhook *api.Webhook
	if add {
		webhook, err = client.Webhooks.AppendAddressesToWebhook(cmd.Context(), id, addresses)
	} else {
		webhook, err = client.Webhooks.RemoveAddressesFromWebhook(cmd.Context(), id, addresses)
	}
	if err != nil {
		return err
	}

	fmt.Printf("✅ Webhook now watches %d addresses\n", len(webhook.AccountAddresses))
	return nil
}

func showWebhook(w *api.Webhook) error {
	if webhookJSONFlag {
		return printJSON(w)
	}
	printWebhook(*w)
	return nil
}

func printWebhook(w api.Webhook) {
	fmt.Printf("%s  %s\n", color.New(color.Bold).Sprint(w.WebhookID), w.WebhookType)
	fmt.Printf("   URL:       %s\n", w.WebhookURL)
	types := make([]string, 0, len(w.TransactionTypes))
	for _, t := range w.TransactionTypes {
		types = append(types, string(t))
	}
	fmt.Printf("   Types:     %s\n", strings.Join(types, ", "))
	fmt.Printf("   Addresses: %d\n", len(w.AccountAddresses))
	for i, addr := range w.AccountAddresses {
		if i == 5 {
			fmt.Printf("     ... %d more\n", len(w.AccountAddresses)-5)
			break
		}
		fmt.Printf("     %s\n", addr)
	}
	fmt.Println()
}
