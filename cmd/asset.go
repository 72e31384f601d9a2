package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
)

var (
	pageFlag       int
	limitFlag      int
	uncompressed   bool
	unverifiedFlag bool
	assetJSONFlag  bool
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Query digital assets",
	Long: `Query NFTs, compressed NFTs and fungible tokens through the Helius
Digital Asset Standard API.

Examples:
  helius-tools asset get <id>
  helius-tools asset owner <address> --page 2 --limit 50
  helius-tools asset group collection <collection-address>
  helius-tools asset creator <address> --unverified
  helius-tools asset proof <id>`,
}

var assetGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		asset, err := client.DAS.GetAsset(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if assetJSONFlag {
			return printJSON(asset)
		}
		printAsset(*asset)
		return nil
	},
}

var assetBatchCmd = &cobra.Command{
	Use:   "batch [id...]",
	Short: "Show several assets in one call",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		assets, err := client.DAS.GetAssetBatch(cmd.Context(), args)
		if err != nil {
			return err
		}
		return printAssets(assets)
	},
}

var assetProofCmd = &cobra.Command{
	Use:   "proof [id]",
	Short: "Show the merkle proof of a compressed asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		proof, err := client.DAS.GetAssetProof(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(proof)
	},
}

var assetSignaturesCmd = &cobra.Command{
	Use:   "signatures [id]",
	Short: "List transaction signatures of a compressed asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		sigs, err := client.DAS.GetSignaturesForAsset(cmd.Context(), args[0], queryOptions()...)
		if err != nil {
			return err
		}
		if assetJSONFlag {
			return printJSON(sigs)
		}

		fmt.Printf("📜 %d signatures\n", len(sigs))
		for i, sig := range sigs {
			fmt.Printf("%3d. %-20s %s\n", i+1, sig.Type, sig.Signature)
		}
		return nil
	},
}

var assetSearchCmd = &cobra.Command{
	Use:   "search [owner]",
	Short: "Search the assets of an owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		opts := queryOptions()
		if uncompressed {
			opts = append(opts, api.WithCompressed(false))
		}
		assets, err := client.DAS.SearchAssets(cmd.Context(), args[0], opts...)
		if err != nil {
			return err
		}
		return printAssets(assets)
	},
}

var assetOwnerCmd = &cobra.Command{
	Use:   "owner [address]",
	Short: "List assets owned by an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		assets, err := client.DAS.GetAssetsByOwner(cmd.Context(), args[0], queryOptions()...)
		if err != nil {
			return err
		}
		return printAssets(assets)
	},
}

var assetGroupCmd = &cobra.Command{
	Use:   "group [key] [value]",
	Short: "List assets in a group such as a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		assets, err := client.DAS.GetAssetsByGroup(cmd.Context(), args[0], args[1], queryOptions()...)
		if err != nil {
			return err
		}
		return printAssets(assets)
	},
}

var assetCreatorCmd = &cobra.Command{
	Use:   "creator [address]",
	Short: "List assets by creator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		opts := queryOptions()
		if unverifiedFlag {
			opts = append(opts, api.WithOnlyVerified(false))
		}
		assets, err := client.DAS.GetAssetsByCreator(cmd.Context(), args[0], opts...)
		if err != nil {
			return err
		}
		return printAssets(assets)
	},
}

var assetAuthorityCmd = &cobra.Command{
	Use:   "authority [address]",
	Short: "List assets by update authority",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		assets, err := client.DAS.GetAssetsByAuthority(cmd.Context(), args[0], queryOptions()...)
		if err != nil {
			return err
		}
		return printAssets(assets)
	},
}

func init() {
	assetCmd.PersistentFlags().IntVar(&pageFlag, "page", 1, "page to fetch")
	assetCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "items per page (server default when 0)")
	assetCmd.PersistentFlags().BoolVar(&assetJSONFlag, "json", false, "print raw JSON")
	assetSearchCmd.Flags().BoolVar(&uncompressed, "uncompressed", false, "search uncompressed assets")
	assetCreatorCmd.Flags().BoolVar(&unverifiedFlag, "unverified", false, "include unverified creators")

	assetCmd.AddCommand(
		assetGetCmd,
		assetBatchCmd,
		assetProofCmd,
		assetSignaturesCmd,
		assetSearchCmd,
		assetOwnerCmd,
		assetGroupCmd,
		assetCreatorCmd,
		assetAuthorityCmd,
	)
}

func queryOptions() []api.QueryOption {
	opts := []api.QueryOption{api.WithPage(pageFlag)}
	if limitFlag > 0 {
		opts = append(opts, api.WithLimit(limitFlag))
	}
	return opts
}

func printAssets(assets []api.Asset) error {
	if assetJSONFlag {
		return printJSON(assets)
	}

	fmt.Printf("🖼  %d assets (page %d)\n", len(assets), pageFlag)
	fmt.Println()
	for _, asset := range assets {
		printAsset(asset)
	}
	return nil
}

func printAsset(asset api.Asset) {
	name := "(unnamed)"
	if asset.Content != nil && asset.Content.Metadata.Name != "" {
		name = asset.Content.Metadata.Name
	}

	kind := asset.Interface
	if asset.Compression != nil && asset.Compression.Compressed {
		kind += color.CyanString(" compressed")
	}
	if asset.Burnt {
		kind += color.RedString(" burnt")
	}

	fmt.Printf("%s  %s\n", color.New(color.Bold).Sprint(name), kind)
	fmt.Printf("   ID:    %s\n", asset.ID)
	if asset.Ownership.Owner != "" {
		fmt.Printf("   Owner: %s\n", asset.Ownership.Owner)
	}
	for _, group := range asset.Grouping {
		fmt.Printf("   %s: %s\n", group.GroupKey, truncateAddress(group.GroupValue))
	}
	fmt.Println()
}
