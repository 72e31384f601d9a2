package api

import (
	"context"
	"net/http"

	"github.com/gagliardetto/solana-go"

	chain "github.com/chinmay1088/helius-tools/chains/solana"
)

// MintService mints compressed NFTs and manages collection delegation
type MintService struct {
	client *Client
}

// MintRequest describes a compressed NFT to mint through Helius
type MintRequest struct {
	Name                 string        `json:"name"`
	Symbol               string        `json:"symbol"`
	Owner                string        `json:"owner"`
	Description          string        `json:"description"`
	Attributes           []Attribute   `json:"attributes"`
	ImageURL             string        `json:"imageUrl,omitempty"`
	ExternalURL          string        `json:"externalUrl,omitempty"`
	SellerFeeBasisPoints *int          `json:"sellerFeeBasisPoints,omitempty"`
	Delegate             string        `json:"delegate,omitempty"`
	Collection           string        `json:"collection,omitempty"`
	URI                  string        `json:"uri,omitempty"`
	Creators             []MintCreator `json:"creators,omitempty"`
	ConfirmTransaction   *bool         `json:"confirmTransaction,omitempty"`

	// Local image upload is not available; a request with ImagePath is
	// rejected. WalletPrivateKey is never sent.
	ImagePath        string `json:"-"`
	WalletPrivateKey string `json:"-"`
}

type MintCreator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

// MintResult is the unwrapped result of mintCompressedNft
type MintResult struct {
	Signature string `json:"signature"`
	Minted    bool   `json:"minted"`
	AssetID   string `json:"assetId"`
}

// DelegateRequest grants a delegate authority over a collection.
// Delegate defaults to the Helius minting authority.
type DelegateRequest struct {
	CollectionMint  solana.PublicKey
	UpdateAuthority solana.PrivateKey
	Delegate        *solana.PublicKey
}

// RevokeRequest closes a delegate's authority over a collection.
// Delegate defaults to the Helius minting authority.
type RevokeRequest struct {
	CollectionMint  solana.PublicKey
	RevokeAuthority solana.PrivateKey
	Delegate        *solana.PublicKey
}

// CollectionQuery selects the mints of a collection
type CollectionQuery struct {
	FirstVerifiedCreators       []string `json:"firstVerifiedCreators,omitempty"`
	VerifiedCollectionAddresses []string `json:"verifiedCollectionAddresses,omitempty"`
}

type MintlistOptions struct {
	Limit           int    `json:"limit,omitempty"`
	PaginationToken string `json:"paginationToken,omitempty"`
}

type MintlistRequest struct {
	Query   CollectionQuery  `json:"query"`
	Options *MintlistOptions `json:"options,omitempty"`
}

type MintlistItem struct {
	Mint string `json:"mint"`
	Name string `json:"name"`
}

type MintlistResponse struct {
	Result          []MintlistItem `json:"result"`
	PaginationToken string         `json:"paginationToken,omitempty"`
}

// MintCompressedNFT mints a compressed NFT and returns the result of the mint call
func (s *MintService) MintCompressedNFT(ctx context.Context, req MintRequest) (*MintResult, error) {
	if req.ImagePath != "" {
		return nil, ErrImageUploadUnsupported
	}

	var result MintResult
	if err := s.client.rpcCall(ctx, "mintCompressedNft", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DelegateCollectionAuthority approves a collection authority record for the
// delegate and submits it as a smart transaction paid by the update authority.
func (s *MintService) DelegateCollectionAuthority(ctx context.Context, req DelegateRequest) error {
	delegate := collectionDelegate(req.Delegate)

	ix, err := chain.ApproveCollectionAuthorityInstruction(req.CollectionMint, delegate, req.UpdateAuthority.PublicKey())
	if err != nil {
		return err
	}

	_, err = s.client.Transactions.SendSmartTransaction(ctx, []solana.Instruction{ix}, []solana.PrivateKey{req.UpdateAuthority}, nil, SendOptions{})
	return err
}

// RevokeCollectionAuthority revokes a previously approved delegate
func (s *MintService) RevokeCollectionAuthority(ctx context.Context, req RevokeRequest) error {
	delegate := collectionDelegate(req.Delegate)

	ix, err := chain.RevokeCollectionAuthorityInstruction(req.CollectionMint, delegate, req.RevokeAuthority.PublicKey())
	if err != nil {
		return err
	}

	_, err = s.client.Transactions.SendSmartTransaction(ctx, []solana.Instruction{ix}, []solana.PrivateKey{req.RevokeAuthority}, nil, SendOptions{})
	return err
}

func collectionDelegate(delegate *solana.PublicKey) solana.PublicKey {
	if delegate != nil {
		return *delegate
	}
	return solana.MustPublicKeyFromBase58(HeliusCollectionAuthority)
}

// GetMintlist returns one page of the mints matching query. The query is
// sent verbatim under the "query" key.
func (s *MintService) GetMintlist(ctx context.Context, query CollectionQuery, opts *MintlistOptions) (*MintlistResponse, error) {
	req := MintlistRequest{
		Query:   query,
		Options: opts,
	}

	var resp MintlistResponse
	if err := s.client.restCall(ctx, http.MethodPost, "/v1/mintlist", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
