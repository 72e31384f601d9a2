package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// rpcRequest is a JSON-RPC 2.0 request with named or positional params
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// rpcResponse represents a Helius or Jito JSON-RPC response
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is a JSON-RPC error object returned by the remote service
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Method  string          `json:"-"`
}

func (e *RPCError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("helius: %s: RPC error %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("helius: RPC error %d: %s", e.Code, e.Message)
}

// APIError represents a non-2xx HTTP response
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Error_     string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("helius: API error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Error_ != "" {
		return fmt.Sprintf("helius: API error (status %d): %s", e.StatusCode, e.Error_)
	}
	return fmt.Sprintf("helius: API error (status %d)", e.StatusCode)
}

var (
	ErrComputeBudgetInstruction = errors.New("helius: cannot provide instructions that set the compute unit price and/or limit")
	ErrNoSigners                = errors.New("helius: at least one signer is required")
	ErrConfirmationTimeout      = errors.New("helius: transaction confirmation timed out")
	ErrBundleTimeout            = errors.New("helius: bundle failed to confirm within the timeout period")
	ErrUnknownRegion            = errors.New("helius: unknown jito region")
	ErrImageUploadUnsupported   = errors.New("helius: local image upload is not supported, use ImageURL")
	ErrUnknownWebhookField      = errors.New("helius: unknown webhook field")
	ErrComputeUnits             = errors.New("helius: error fetching compute units")
	ErrFeePayerNotSigner        = errors.New("helius: fee payer must be one of the signers")
	ErrNotFound                 = errors.New("helius: not found")
	ErrConflictingQuery         = errors.New("helius: cannot provide both firstVerifiedCreators and verifiedCollectionAddresses")
)
