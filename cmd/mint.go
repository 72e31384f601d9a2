package cmd

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/helius-tools/api"
	chain "github.com/chinmay1088/helius-tools/chains/solana"
)

var (
	mintName        string
	mintSymbol      string
	mintOwner       string
	mintDescription string
	mintImageURL    string
	mintExternalURL string
	mintCollection  string
	mintURI         string
	mintRoyalty     int
	mintAttributes  []string

	delegateFlag string

	mintlistCreators    []string
	mintlistCollections []string
	mintlistToken       string
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint compressed NFTs and manage collection authority",
	Long: `Mint compressed NFTs through Helius and manage the collection
authority Helius uses to verify mints into your collection.

Examples:
  helius-tools mint nft --name "Rock #1" --symbol ROCK --owner <address> --image-url https://...
  helius-tools mint delegate <collection-mint>
  helius-tools mint revoke <collection-mint>
  helius-tools mint list --creator <address>`,
}

var mintNFTCmd = &cobra.Command{
	Use:   "nft",
	Short: "Mint a compressed NFT",
	Args:  cobra.NoArgs,
	RunE:  runMintNFT,
}

var mintDelegateCmd = &cobra.Command{
	Use:   "delegate [collection-mint]",
	Short: "Grant collection authority to Helius or --delegate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollectionAuthority(cmd, args[0], true)
	},
}

var mintRevokeCmd = &cobra.Command{
	Use:   "revoke [collection-mint]",
	Short: "Revoke collection authority from Helius or --delegate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollectionAuthority(cmd, args[0], false)
	},
}

var mintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the mints of a collection",
	Args:  cobra.NoArgs,
	RunE:  runMintlist,
}

func init() {
	mintNFTCmd.Flags().StringVar(&mintName, "name", "", "NFT name")
	mintNFTCmd.Flags().StringVar(&mintSymbol, "symbol", "", "NFT symbol")
	mintNFTCmd.Flags().StringVar(&mintOwner, "owner", "", "recipient address (default your wallet)")
	mintNFTCmd.Flags().StringVar(&mintDescription, "description", "", "NFT description")
	mintNFTCmd.Flags().StringVar(&mintImageURL, "image-url", "", "hosted image URL")
	mintNFTCmd.Flags().StringVar(&mintExternalURL, "external-url", "", "external URL")
	mintNFTCmd.Flags().StringVar(&mintCollection, "collection", "", "collection mint to verify into")
	mintNFTCmd.Flags().StringVar(&mintURI, "uri", "", "prebuilt metadata URI")
	mintNFTCmd.Flags().IntVar(&mintRoyalty, "royalty-bps", -1, "seller fee in basis points")
	mintNFTCmd.Flags().StringArrayVar(&mintAttributes, "attr", nil, "attribute as trait=value, repeatable")
	mintNFTCmd.MarkFlagRequired("name")

	mintDelegateCmd.Flags().StringVar(&delegateFlag, "delegate", "", "delegate address (default the Helius authority)")
	mintRevokeCmd.Flags().StringVar(&delegateFlag, "delegate", "", "delegate address (default the Helius authority)")

	mintListCmd.Flags().StringSliceVar(&mintlistCreators, "creator", nil, "first verified creator")
	mintListCmd.Flags().StringSliceVar(&mintlistCollections, "collection", nil, "verified collection address")
	mintListCmd.Flags().StringVar(&mintlistToken, "token", "", "pagination token from a previous page")
	mintListCmd.Flags().IntVar(&limitFlag, "limit", 0, "mints per page")

	mintCmd.AddCommand(mintNFTCmd, mintDelegateCmd, mintRevokeCmd, mintListCmd)
}

func runMintNFT(cmd *cobra.Command, args []string) error {
	manager, client, err := setup()
	if err != nil {
		return err
	}

	owner := mintOwner
	if owner == "" {
		if err := requireUnlocked(manager); err != nil {
			return fmt.Errorf("no --owner given and %w", err)
		}
		address, err := manager.GetAddress()
		if err != nil {
			return err
		}
		owner = address.String()
	}
	if err := chain.ValidateAddress(owner); err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}

	attributes, err := parseAttributes(mintAttributes)
	if err != nil {
		return err
	}

	req := api.MintRequest{
		Name:        mintName,
		Symbol:      mintSymbol,
		Owner:       owner,
		Description: mintDescription,
		Attributes:  attributes,
		ImageURL:    mintImageURL,
		ExternalURL: mintExternalURL,
		Collection:  mintCollection,
		URI:         mintURI,
	}
	if mintRoyalty >= 0 {
		req.SellerFeeBasisPoints = &mintRoyalty
	}

	var result *api.MintResult
	err = withSpinner("Minting...", func() error {
		result, err = client.Mint.MintCompressedNFT(cmd.Context(), req)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mint: %w", err)
	}

	cluster, _ := resolveCluster(manager)
	fmt.Println("✅ Minted successfully!")
	fmt.Printf("🖼  Asset ID: %s\n", result.AssetID)
	fmt.Printf("📝 Signature: %s\n", result.Signature)
	fmt.Printf("🔗 Explorer: %s\n", explorerURL(result.Signature, cluster))
	return nil
}

// parseAttributes turns trait=value pairs into attributes
func parseAttributes(pairs []string) ([]api.Attribute, error) {
	attributes := make([]api.Attribute, 0, len(pairs))
	for _, pair := range pairs {
		trait, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(trait) == "" {
			return nil, fmt.Errorf("invalid attribute %q, use trait=value", pair)
		}
		attributes = append(attributes, api.Attribute{
			TraitType: strings.TrimSpace(trait),
			Value:     strings.TrimSpace(value),
		})
	}
	return attributes, nil
}

func runCollectionAuthority(cmd *cobra.Command, collection string, approve bool) error {
	manager, client, err := setup()
	if err != nil {
		return err
	}

	if err := requireUnlocked(manager); err != nil {
		return err
	}

	collectionMint, err := chain.ParseAddress(collection)
	if err != nil {
		return fmt.Errorf("invalid collection mint: %w", err)
	}

	var delegate *solana.PublicKey
	if delegateFlag != "" {
		key, err := chain.ParseAddress(delegateFlag)
		if err != nil {
			return fmt.Errorf("invalid delegate: %w", err)
		}
		delegate = &key
	}

	signer, err := manager.GetSigner()
	if err != nil {
		return err
	}

	action := "Revoking"
	if approve {
		action = "Delegating"
	}

	err = withSpinner(action+" collection authority...", func() error {
		if approve {
			return client.Mint.DelegateCollectionAuthority(cmd.Context(), api.DelegateRequest{
				CollectionMint:  collectionMint,
				UpdateAuthority: signer,
				Delegate:        delegate,
			})
		}
		return client.Mint.RevokeCollectionAuthority(cmd.Context(), api.RevokeRequest{
			CollectionMint:  collectionMint,
			RevokeAuthority: signer,
			Delegate:        delegate,
		})
	})
	if err != nil {
		return err
	}

	if approve {
		fmt.Println("✅ Collection authority delegated")
	} else {
		fmt.Println("✅ Collection authority revoked")
	}
	return nil
}

func runMintlist(cmd *cobra.Command, args []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	query := api.CollectionQuery{
		FirstVerifiedCreators:       splitList(mintlistCreators),
		VerifiedCollectionAddresses: splitList(mintlistCollections),
	}
	if len(query.FirstVerifiedCreators) == 0 && len(query.VerifiedCollectionAddresses) == 0 {
		return fmt.Errorf("pass --creator or --collection")
	}

	var opts *api.MintlistOptions
	if limitFlag > 0 || mintlistToken != "" {
		opts = &api.MintlistOptions{Limit: limitFlag, PaginationToken: mintlistToken}
	}

	resp, err := client.Mint.GetMintlist(cmd.Context(), query, opts)
	if err != nil {
		return err
	}

	for _, item := range resp.Result {
		fmt.Printf("%s  %s\n", item.Mint, item.Name)
	}
	if resp.PaginationToken != "" {
		fmt.Println()
		fmt.Printf("💡 More mints available: --token %s\n", resp.PaginationToken)
	}
	return nil
}
