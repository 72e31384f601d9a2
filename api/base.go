package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

const rpcRequestID = "helius-tools"

// Client is the Helius facade. It owns one HTTP client and one Solana RPC
// client and hands a pointer to itself to every service group. Nothing on
// it changes after NewClient returns, so it is safe for concurrent use.
type Client struct {
	apiKey     string
	cluster    string
	rpcURL     string
	apiURL     string
	httpClient *http.Client
	timeout    time.Duration
	rpc        *rpc.Client
	logger     *zap.Logger
	jito       map[string]string

	confirmTimeout  time.Duration
	confirmInterval time.Duration
	bundleTimeout   time.Duration
	bundleInterval  time.Duration

	DAS          *DASService
	Mint         *MintService
	Webhooks     *WebhookService
	Transactions *TransactionService
	Helpers      *HelperService
}

// ClientOption is a function that configures the Client.
type ClientOption func(*Client)

// WithCluster selects mainnet or devnet endpoints.
func WithCluster(cluster string) ClientOption {
	return func(c *Client) {
		c.cluster = cluster
	}
}

// WithRPCURL sets the JSON-RPC endpoint verbatim. The api key is not appended.
func WithRPCURL(url string) ClientOption {
	return func(c *Client) {
		c.rpcURL = url
	}
}

// WithAPIURL sets the REST base URL used for webhooks and mintlist.
func WithAPIURL(url string) ClientOption {
	return func(c *Client) {
		c.apiURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect
// on a client passed with WithHTTPClient.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithJitoURL overrides the bundle endpoint of a block engine region.
func WithJitoURL(region, url string) ClientOption {
	return func(c *Client) {
		c.jito[region] = url
	}
}

// WithConfirmationPolling sets how long and how often transaction
// confirmation is polled.
func WithConfirmationPolling(timeout, interval time.Duration) ClientOption {
	return func(c *Client) {
		c.confirmTimeout = timeout
		c.confirmInterval = interval
	}
}

// WithBundlePolling sets how long and how often Jito bundle status is polled.
func WithBundlePolling(timeout, interval time.Duration) ClientOption {
	return func(c *Client) {
		c.bundleTimeout = timeout
		c.bundleInterval = interval
	}
}

// NewClient creates a new Helius client for the given api key
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:          apiKey,
		cluster:         ClusterMainnet,
		timeout:         DefaultTimeout,
		logger:          zap.NewNop(),
		jito:            make(map[string]string, len(jitoEndpoints)),
		confirmTimeout:  DefaultConfirmationTimeout,
		confirmInterval: DefaultConfirmationInterval,
		bundleTimeout:   DefaultBundleTimeout,
		bundleInterval:  DefaultBundleInterval,
	}
	for region, endpoint := range jitoEndpoints {
		c.jito[region] = endpoint
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	if c.rpcURL == "" {
		base := MainnetRPCURL
		if c.IsDevnet() {
			base = DevnetRPCURL
		}
		c.rpcURL = base + "?api-key=" + url.QueryEscape(apiKey)
	}
	if c.apiURL == "" {
		c.apiURL = MainnetAPIURL
		if c.IsDevnet() {
			c.apiURL = DevnetAPIURL
		}
	}

	c.rpc = rpc.NewWithCustomRPCClient(remoteErrors{jsonrpc.NewClientWithOpts(c.rpcURL, &jsonrpc.RPCClientOpts{
		HTTPClient: c.httpClient,
	})})

	c.DAS = &DASService{client: c}
	c.Mint = &MintService{client: c}
	c.Webhooks = &WebhookService{client: c}
	c.Transactions = &TransactionService{client: c}
	c.Helpers = &HelperService{client: c}

	return c
}

// IsDevnet returns true if the client targets devnet
func (c *Client) IsDevnet() bool {
	return c.cluster == ClusterDevnet
}

// Cluster returns the cluster the client was built for
func (c *Client) Cluster() string {
	return c.cluster
}

// remoteErrors returns error objects answered to the Solana RPC client as
// *RPCError, the same type callJSONRPC returns.
type remoteErrors struct {
	rpc.JSONRPCClient
}

func (r remoteErrors) CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error {
	err := r.JSONRPCClient.CallForInto(ctx, out, method, params)
	var remote *jsonrpc.RPCError
	if !errors.As(err, &remote) {
		return err
	}
	rpcErr := &RPCError{Code: remote.Code, Message: remote.Message, Method: method}
	if remote.Data != nil {
		rpcErr.Data, _ = json.Marshal(remote.Data)
	}
	return rpcErr
}

// rpcCall performs a JSON-RPC call against the Helius RPC endpoint
func (c *Client) rpcCall(ctx context.Context, method string, params interface{}, result interface{}) error {
	return c.callJSONRPC(ctx, c.rpcURL, method, params, result)
}

// callJSONRPC posts a JSON-RPC request and decodes its result. A remote error
// object is returned as *RPCError without further wrapping.
func (c *Client) callJSONRPC(ctx context.Context, endpoint, method string, params interface{}, result interface{}) error {
	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      rpcRequestID,
		Method:  method,
		Params:  params,
	}

	body, err := c.do(ctx, http.MethodPost, endpoint, method, payload)
	if err != nil {
		return err
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if rpcResp.Error != nil {
		rpcResp.Error.Method = method
		return rpcResp.Error
	}

	if result == nil || len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to parse %s result: %w", method, err)
	}
	return nil
}

// restCall performs a request against the Helius REST API
func (c *Client) restCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	endpoint := fmt.Sprintf("%s%s?api-key=%s", c.apiURL, path, url.QueryEscape(c.apiKey))

	respBody, err := c.do(ctx, method, endpoint, method+" "+path, body)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// do sends a request with an optional JSON payload and returns the body of a
// 2xx response. Other statuses become *APIError.
func (c *Client) do(ctx context.Context, method, endpoint, operation string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("helius request failed",
			zap.String("operation", operation),
			zap.String("endpoint", redactURL(endpoint)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("helius request",
		zap.String("operation", operation),
		zap.String("endpoint", redactURL(endpoint)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil || (apiErr.Message == "" && apiErr.Error_ == "") {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(body)),
			}
		}
		apiErr.StatusCode = resp.StatusCode
		return nil, &apiErr
	}

	return body, nil
}

// redactURL hides the api key so endpoints can be logged
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("api-key") {
		q.Set("api-key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
