package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// MaxWebhookAddresses is the most account addresses one webhook can watch
const MaxWebhookAddresses = 100_000

// WebhookService manages Helius webhooks
type WebhookService struct {
	client *Client
}

type WebhookType string

const (
	WebhookTypeEnhanced       WebhookType = "enhanced"
	WebhookTypeEnhancedDevnet WebhookType = "enhancedDevnet"
	WebhookTypeRaw            WebhookType = "raw"
	WebhookTypeRawDevnet      WebhookType = "rawDevnet"
	WebhookTypeDiscord        WebhookType = "discord"
	WebhookTypeDiscordDevnet  WebhookType = "discordDevnet"
)

// TransactionType is an enhanced transaction type a webhook can filter on
type TransactionType string

const (
	TransactionTypeAny                    TransactionType = "ANY"
	TransactionTypeUnknown                TransactionType = "UNKNOWN"
	TransactionTypeNFTBid                 TransactionType = "NFT_BID"
	TransactionTypeNFTBidCancelled        TransactionType = "NFT_BID_CANCELLED"
	TransactionTypeNFTListing             TransactionType = "NFT_LISTING"
	TransactionTypeNFTCancelListing       TransactionType = "NFT_CANCEL_LISTING"
	TransactionTypeNFTSale                TransactionType = "NFT_SALE"
	TransactionTypeNFTMint                TransactionType = "NFT_MINT"
	TransactionTypeNFTAuctionCreated      TransactionType = "NFT_AUCTION_CREATED"
	TransactionTypeNFTAuctionUpdated      TransactionType = "NFT_AUCTION_UPDATED"
	TransactionTypeNFTAuctionCancelled    TransactionType = "NFT_AUCTION_CANCELLED"
	TransactionTypeNFTParticipationReward TransactionType = "NFT_PARTICIPATION_REWARD"
	TransactionTypeNFTMintRejected        TransactionType = "NFT_MINT_REJECTED"
	TransactionTypeNFTGlobalBid           TransactionType = "NFT_GLOBAL_BID"
	TransactionTypeNFTGlobalBidCancelled  TransactionType = "NFT_GLOBAL_BID_CANCELLED"
	TransactionTypeBurn                   TransactionType = "BURN"
	TransactionTypeBurnNFT                TransactionType = "BURN_NFT"
	TransactionTypeTransfer               TransactionType = "TRANSFER"
	TransactionTypeSwap                   TransactionType = "SWAP"
	TransactionTypeTokenMint              TransactionType = "TOKEN_MINT"
	TransactionTypeStakeSOL               TransactionType = "STAKE_SOL"
	TransactionTypeUnstakeSOL             TransactionType = "UNSTAKE_SOL"
	TransactionTypeCompressedNFTMint      TransactionType = "COMPRESSED_NFT_MINT"
	TransactionTypeCompressedNFTTransfer  TransactionType = "COMPRESSED_NFT_TRANSFER"
	TransactionTypeCompressedNFTBurn      TransactionType = "COMPRESSED_NFT_BURN"
)

// well known program addresses to watch
const (
	AddressMagicEdenV2 = "M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K"
	AddressTensorSwap  = "TSWAPaqyCSx2KABk68Shruf4rp7CxcNi8hAsbdwmHbN"
	AddressJupiterV6   = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
)

// Webhook is a webhook as stored by Helius
type Webhook struct {
	WebhookID        string            `json:"webhookID"`
	Wallet           string            `json:"wallet"`
	WebhookURL       string            `json:"webhookURL"`
	TransactionTypes []TransactionType `json:"transactionTypes"`
	AccountAddresses []string          `json:"accountAddresses"`
	WebhookType      WebhookType       `json:"webhookType,omitempty"`
	AuthHeader       string            `json:"authHeader,omitempty"`
	TxnStatus        string            `json:"txnStatus,omitempty"`
	Encoding         string            `json:"encoding,omitempty"`
}

// CreateWebhookRequest is the body of a webhook create or update
type CreateWebhookRequest struct {
	WebhookURL       string            `json:"webhookURL"`
	TransactionTypes []TransactionType `json:"transactionTypes"`
	AccountAddresses []string          `json:"accountAddresses"`
	WebhookType      WebhookType       `json:"webhookType,omitempty"`
	AuthHeader       string            `json:"authHeader,omitempty"`
	TxnStatus        string            `json:"txnStatus,omitempty"`
	Encoding         string            `json:"encoding,omitempty"`
}

// EditWebhookRequest is a sparse patch. Nil fields are left unchanged.
type EditWebhookRequest struct {
	WebhookURL       *string            `json:"webhookURL,omitempty"`
	TransactionTypes *[]TransactionType `json:"transactionTypes,omitempty"`
	AccountAddresses *[]string          `json:"accountAddresses,omitempty"`
	WebhookType      *WebhookType       `json:"webhookType,omitempty"`
	AuthHeader       *string            `json:"authHeader,omitempty"`
	TxnStatus        *string            `json:"txnStatus,omitempty"`
	Encoding         *string            `json:"encoding,omitempty"`
}

// CreateCollectionWebhookRequest creates a webhook over every mint of a collection
type CreateCollectionWebhookRequest struct {
	CollectionQuery  CollectionQuery
	WebhookURL       string
	TransactionTypes []TransactionType
	WebhookType      WebhookType
	AuthHeader       string
}

// ParseWebhookPatch decodes a JSON webhook patch. Keys that do not name a
// mutable webhook field are rejected with ErrUnknownWebhookField.
func ParseWebhookPatch(data []byte) (EditWebhookRequest, error) {
	var patch EditWebhookRequest

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return EditWebhookRequest{}, fmt.Errorf("%w: %s", ErrUnknownWebhookField, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return EditWebhookRequest{}, fmt.Errorf("invalid webhook patch: %w", err)
	}
	if dec.More() {
		return EditWebhookRequest{}, errors.New("invalid webhook patch: trailing data")
	}
	return patch, nil
}

// apply overlays the set fields of the patch onto w
func (p EditWebhookRequest) apply(w *Webhook) {
	if p.WebhookURL != nil {
		w.WebhookURL = *p.WebhookURL
	}
	if p.TransactionTypes != nil {
		w.TransactionTypes = *p.TransactionTypes
	}
	if p.AccountAddresses != nil {
		w.AccountAddresses = *p.AccountAddresses
	}
	if p.WebhookType != nil {
		w.WebhookType = *p.WebhookType
	}
	if p.AuthHeader != nil {
		w.AuthHeader = *p.AuthHeader
	}
	if p.TxnStatus != nil {
		w.TxnStatus = *p.TxnStatus
	}
	if p.Encoding != nil {
		w.Encoding = *p.Encoding
	}
}

// updateBody drops the server owned fields of a webhook
func (w Webhook) updateBody() CreateWebhookRequest {
	return CreateWebhookRequest{
		WebhookURL:       w.WebhookURL,
		TransactionTypes: w.TransactionTypes,
		AccountAddresses: w.AccountAddresses,
		WebhookType:      w.WebhookType,
		AuthHeader:       w.AuthHeader,
		TxnStatus:        w.TxnStatus,
		Encoding:         w.Encoding,
	}
}

func webhookPath(id string) string {
	return "/v0/webhooks/" + url.PathEscape(id)
}

func (s *WebhookService) CreateWebhook(ctx context.Context, req CreateWebhookRequest) (*Webhook, error) {
	if req.TransactionTypes == nil {
		req.TransactionTypes = []TransactionType{TransactionTypeAny}
	}
	if req.WebhookType == "" {
		req.WebhookType = WebhookTypeEnhanced
		if s.client.IsDevnet() {
			req.WebhookType = WebhookTypeEnhancedDevnet
		}
	}

	var webhook Webhook
	if err := s.client.restCall(ctx, http.MethodPost, "/v0/webhooks", req, &webhook); err != nil {
		return nil, err
	}
	return &webhook, nil
}

// EditWebhook reads the webhook, overlays the patch and writes it back
func (s *WebhookService) EditWebhook(ctx context.Context, id string, patch EditWebhookRequest) (*Webhook, error) {
	current, err := s.GetWebhookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.apply(current)
	return s.putWebhook(ctx, id, *current)
}

// AppendAddressesToWebhook adds addresses the webhook does not watch yet
func (s *WebhookService) AppendAddressesToWebhook(ctx context.Context, id string, addresses []string) (*Webhook, error) {
	current, err := s.GetWebhookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(current.AccountAddresses))
	for _, addr := range current.AccountAddresses {
		seen[addr] = struct{}{}
	}
	for _, addr := range addresses {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		current.AccountAddresses = append(current.AccountAddresses, addr)
	}
	if len(current.AccountAddresses) > MaxWebhookAddresses {
		return nil, fmt.Errorf("a webhook cannot contain more than %d addresses", MaxWebhookAddresses)
	}

	return s.putWebhook(ctx, id, *current)
}

// RemoveAddressesFromWebhook stops watching the given addresses
func (s *WebhookService) RemoveAddressesFromWebhook(ctx context.Context, id string, addresses []string) (*Webhook, error) {
	current, err := s.GetWebhookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	remove := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		remove[addr] = struct{}{}
	}
	kept := make([]string, 0, len(current.AccountAddresses))
	for _, addr := range current.AccountAddresses {
		if _, ok := remove[addr]; !ok {
			kept = append(kept, addr)
		}
	}
	current.AccountAddresses = kept

	return s.putWebhook(ctx, id, *current)
}

func (s *WebhookService) putWebhook(ctx context.Context, id string, w Webhook) (*Webhook, error) {
	var updated Webhook
	if err := s.client.restCall(ctx, http.MethodPut, webhookPath(id), w.updateBody(), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *WebhookService) DeleteWebhook(ctx context.Context, id string) error {
	return s.client.restCall(ctx, http.MethodDelete, webhookPath(id), nil, nil)
}

func (s *WebhookService) GetAllWebhooks(ctx context.Context) ([]Webhook, error) {
	var webhooks []Webhook
	if err := s.client.restCall(ctx, http.MethodGet, "/v0/webhooks", nil, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

func (s *WebhookService) GetWebhookByID(ctx context.Context, id string) (*Webhook, error) {
	var webhook Webhook
	if err := s.client.restCall(ctx, http.MethodGet, webhookPath(id), nil, &webhook); err != nil {
		return nil, err
	}
	return &webhook, nil
}

// CreateCollectionWebhook collects every mint of the collection through the
// mintlist API and creates one webhook watching all of them.
func (s *WebhookService) CreateCollectionWebhook(ctx context.Context, req CreateCollectionWebhookRequest) (*Webhook, error) {
	if len(req.CollectionQuery.FirstVerifiedCreators) == 0 && len(req.CollectionQuery.VerifiedCollectionAddresses) == 0 {
		return nil, errors.New("collection query needs firstVerifiedCreators or verifiedCollectionAddresses")
	}
	if len(req.CollectionQuery.FirstVerifiedCreators) > 0 && len(req.CollectionQuery.VerifiedCollectionAddresses) > 0 {
		return nil, ErrConflictingQuery
	}

	var mints []string
	opts := &MintlistOptions{Limit: mintlistPageSize}
	for {
		page, err := s.client.Mint.GetMintlist(ctx, req.CollectionQuery, opts)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Result {
			mints = append(mints, item.Mint)
		}
		if page.PaginationToken == "" || len(page.Result) == 0 {
			break
		}
		opts = &MintlistOptions{Limit: mintlistPageSize, PaginationToken: page.PaginationToken}
	}

	return s.CreateWebhook(ctx, CreateWebhookRequest{
		WebhookURL:       req.WebhookURL,
		TransactionTypes: req.TransactionTypes,
		AccountAddresses: mints,
		WebhookType:      req.WebhookType,
		AuthHeader:       req.AuthHeader,
	})
}
