package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// DASService wraps the Digital Asset Standard read methods
type DASService struct {
	client *Client
}

// Asset is a DAS asset, fungible or not, compressed or not
type Asset struct {
	Interface   string           `json:"interface"`
	ID          string           `json:"id"`
	Content     *AssetContent    `json:"content,omitempty"`
	Authorities []AssetAuthority `json:"authorities,omitempty"`
	Compression *Compression     `json:"compression,omitempty"`
	Grouping    []Grouping       `json:"grouping,omitempty"`
	Royalty     *Royalty         `json:"royalty,omitempty"`
	Creators    []Creator        `json:"creators,omitempty"`
	Ownership   Ownership        `json:"ownership"`
	Supply      *Supply          `json:"supply,omitempty"`
	Mutable     bool             `json:"mutable"`
	Burnt       bool             `json:"burnt"`
	TokenInfo   json.RawMessage  `json:"token_info,omitempty"`
}

type AssetContent struct {
	Schema   string          `json:"$schema"`
	JSONURI  string          `json:"json_uri"`
	Files    []File          `json:"files,omitempty"`
	Metadata Metadata        `json:"metadata"`
	Links    json.RawMessage `json:"links,omitempty"`
}

type File struct {
	URI    string `json:"uri"`
	CDNURI string `json:"cdn_uri,omitempty"`
	Mime   string `json:"mime,omitempty"`
}

type Metadata struct {
	Name          string      `json:"name"`
	Symbol        string      `json:"symbol"`
	Description   string      `json:"description,omitempty"`
	TokenStandard string      `json:"token_standard,omitempty"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

// Attribute is one trait of an NFT
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type AssetAuthority struct {
	Address string   `json:"address"`
	Scopes  []string `json:"scopes"`
}

type Compression struct {
	Eligible    bool   `json:"eligible"`
	Compressed  bool   `json:"compressed"`
	DataHash    string `json:"data_hash"`
	CreatorHash string `json:"creator_hash"`
	AssetHash   string `json:"asset_hash"`
	Tree        string `json:"tree"`
	Seq         uint64 `json:"seq"`
	LeafID      uint64 `json:"leaf_id"`
}

type Grouping struct {
	GroupKey           string          `json:"group_key"`
	GroupValue         string          `json:"group_value"`
	CollectionMetadata json.RawMessage `json:"collection_metadata,omitempty"`
}

type Royalty struct {
	RoyaltyModel        string  `json:"royalty_model"`
	Target              *string `json:"target"`
	Percent             float64 `json:"percent"`
	BasisPoints         int     `json:"basis_points"`
	PrimarySaleHappened bool    `json:"primary_sale_happened"`
	Locked              bool    `json:"locked"`
}

type Creator struct {
	Address  string `json:"address"`
	Share    int    `json:"share"`
	Verified bool   `json:"verified"`
}

type Ownership struct {
	Frozen         bool    `json:"frozen"`
	Delegated      bool    `json:"delegated"`
	Delegate       *string `json:"delegate"`
	OwnershipModel string  `json:"ownership_model"`
	Owner          string  `json:"owner"`
}

type Supply struct {
	PrintMaxSupply     uint64 `json:"print_max_supply"`
	PrintCurrentSupply uint64 `json:"print_current_supply"`
	EditionNonce       *int   `json:"edition_nonce"`
}

// AssetProof is the merkle proof of a compressed asset
type AssetProof struct {
	Root      string   `json:"root"`
	Proof     []string `json:"proof"`
	NodeIndex uint64   `json:"node_index"`
	Leaf      string   `json:"leaf"`
	TreeID    string   `json:"tree_id"`
}

// AssetSignature is one entry of an asset's transaction history. The
// wire format is a [signature, type] pair.
type AssetSignature struct {
	Signature string
	Type      string
}

func (s *AssetSignature) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid asset signature: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("invalid asset signature: expected 2 elements, got %d", len(pair))
	}
	s.Signature, s.Type = pair[0], pair[1]
	return nil
}

func (s AssetSignature) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{s.Signature, s.Type})
}

// assetList is the paginated envelope of every DAS list method
type assetList[T any] struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Page  int `json:"page"`
	Items []T `json:"items"`
}

// queryParams holds the shared paging and filter flags of list queries
type queryParams struct {
	Page         int
	Limit        int
	Compressed   *bool
	OnlyVerified *bool
}

// QueryOption is a function that adjusts a DAS list query.
type QueryOption func(*queryParams)

// WithPage selects a 1-based page. Defaults to 1.
func WithPage(page int) QueryOption {
	return func(q *queryParams) {
		q.Page = page
	}
}

// WithLimit sets the page size
func WithLimit(limit int) QueryOption {
	return func(q *queryParams) {
		q.Limit = limit
	}
}

// WithCompressed filters SearchAssets by compression. Defaults to true.
func WithCompressed(compressed bool) QueryOption {
	return func(q *queryParams) {
		q.Compressed = &compressed
	}
}

// WithOnlyVerified filters GetAssetsByCreator to verified creators. Defaults to true.
func WithOnlyVerified(onlyVerified bool) QueryOption {
	return func(q *queryParams) {
		q.OnlyVerified = &onlyVerified
	}
}

func newQueryParams(opts []QueryOption) queryParams {
	q := queryParams{Page: 1}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// params builds the named params object of a list request
func (q queryParams) params(fields map[string]interface{}) map[string]interface{} {
	fields["page"] = q.Page
	if q.Limit > 0 {
		fields["limit"] = q.Limit
	}
	return fields
}

// listItems runs a paginated method and returns only its items
func listItems[T any](ctx context.Context, c *Client, method string, params map[string]interface{}) ([]T, error) {
	var list assetList[T]
	if err := c.rpcCall(ctx, method, params, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetAsset returns a single asset with its collection metadata
func (s *DASService) GetAsset(ctx context.Context, id string) (*Asset, error) {
	params := map[string]interface{}{
		"id": id,
		"displayOptions": map[string]interface{}{
			"showCollectionMetadata": true,
		},
	}

	var asset *Asset
	if err := s.client.rpcCall(ctx, "getAsset", params, &asset); err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: asset %s", ErrNotFound, id)
	}
	return asset, nil
}

// GetAssetBatch returns several assets in one call
func (s *DASService) GetAssetBatch(ctx context.Context, ids []string) ([]Asset, error) {
	params := map[string]interface{}{
		"ids": ids,
	}

	var assets []Asset
	if err := s.client.rpcCall(ctx, "getAssetBatch", params, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// GetSignaturesForAsset returns a page of the transaction history of a compressed asset
func (s *DASService) GetSignaturesForAsset(ctx context.Context, id string, opts ...QueryOption) ([]AssetSignature, error) {
	q := newQueryParams(opts)
	return listItems[AssetSignature](ctx, s.client, "getSignaturesForAsset", q.params(map[string]interface{}{
		"id": id,
	}))
}

// SearchAssets returns a page of assets held by owner. Only compressed assets
// are returned unless WithCompressed(false) is passed.
func (s *DASService) SearchAssets(ctx context.Context, owner string, opts ...QueryOption) ([]Asset, error) {
	q := newQueryParams(opts)
	compressed := true
	if q.Compressed != nil {
		compressed = *q.Compressed
	}
	return listItems[Asset](ctx, s.client, "searchAssets", q.params(map[string]interface{}{
		"ownerAddress": owner,
		"compressed":   compressed,
	}))
}

// GetAssetProof returns the merkle proof of a compressed asset
func (s *DASService) GetAssetProof(ctx context.Context, id string) (*AssetProof, error) {
	params := map[string]interface{}{
		"id": id,
	}

	var proof *AssetProof
	if err := s.client.rpcCall(ctx, "getAssetProof", params, &proof); err != nil {
		return nil, err
	}
	if proof == nil {
		return nil, fmt.Errorf("%w: asset proof %s", ErrNotFound, id)
	}
	return proof, nil
}

func (s *DASService) GetAssetsByOwner(ctx context.Context, owner string, opts ...QueryOption) ([]Asset, error) {
	q := newQueryParams(opts)
	return listItems[Asset](ctx, s.client, "getAssetsByOwner", q.params(map[string]interface{}{
		"ownerAddress": owner,
	}))
}

// GetAssetsByGroup lists assets by group, e.g. ("collection", <collection mint>)
func (s *DASService) GetAssetsByGroup(ctx context.Context, groupKey, groupValue string, opts ...QueryOption) ([]Asset, error) {
	q := newQueryParams(opts)
	return listItems[Asset](ctx, s.client, "getAssetsByGroup", q.params(map[string]interface{}{
		"groupKey":   groupKey,
		"groupValue": groupValue,
	}))
}

// GetAssetsByCreator lists assets by creator, verified creators only by default
func (s *DASService) GetAssetsByCreator(ctx context.Context, creator string, opts ...QueryOption) ([]Asset, error) {
	q := newQueryParams(opts)
	onlyVerified := true
	if q.OnlyVerified != nil {
		onlyVerified = *q.OnlyVerified
	}
	return listItems[Asset](ctx, s.client, "getAssetsByCreator", q.params(map[string]interface{}{
		"creatorAddress": creator,
		"onlyVerified":   onlyVerified,
	}))
}

func (s *DASService) GetAssetsByAuthority(ctx context.Context, authority string, opts ...QueryOption) ([]Asset, error) {
	q := newQueryParams(opts)
	return listItems[Asset](ctx, s.client, "getAssetsByAuthority", q.params(map[string]interface{}{
		"authorityAddress": authority,
	}))
}
