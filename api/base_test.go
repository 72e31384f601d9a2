package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
)

// rpcHandler answers one JSON-RPC method. A non-nil *RPCError is sent as
// the error object instead of a result.
type rpcHandler func(params json.RawMessage) (interface{}, *RPCError)

type recordedCall struct {
	Path   string
	Method string
	Params json.RawMessage
}

// fakeNode is a JSON-RPC server standing in for Helius and Jito
type fakeNode struct {
	t        *testing.T
	mu       sync.Mutex
	calls    []recordedCall
	handlers map[string]rpcHandler
}

func newFakeNode(t *testing.T) (*fakeNode, *httptest.Server) {
	t.Helper()
	node := &fakeNode{t: t, handlers: make(map[string]rpcHandler)}
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)
	return node, server
}

func (n *fakeNode) handle(method string, h rpcHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

// result registers a method that always returns the same result
func (n *fakeNode) result(method string, result interface{}) {
	n.handle(method, func(json.RawMessage) (interface{}, *RPCError) {
		return result, nil
	})
}

func (n *fakeNode) callsTo(method string) []recordedCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []recordedCall
	for _, c := range n.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		n.t.Errorf("failed to decode request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls = append(n.calls, recordedCall{Path: r.URL.Path, Method: req.Method, Params: req.Params})
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
	}
	if !ok {
		n.t.Errorf("unexpected method %s", req.Method)
		resp["error"] = RPCError{Code: -32601, Message: "method not found"}
	} else if result, rpcErr := h(req.Params); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// namedParams decodes the single named params object of a Helius method
func namedParams(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var params map[string]interface{}
	if err := json.Unmarshal(raw, &params); err != nil {
		t.Errorf("failed to decode params %s: %v", raw, err)
	}
	return params
}

// positionalParams decodes a positional params array
func positionalParams(t *testing.T, raw json.RawMessage) []json.RawMessage {
	t.Helper()
	var params []json.RawMessage
	if err := json.Unmarshal(raw, &params); err != nil {
		t.Errorf("failed to decode params %s: %v", raw, err)
	}
	return params
}

func newTestClient(url string, opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithRPCURL(url), WithAPIURL(url)}, opts...)
	return NewClient("test-key", opts...)
}

func TestNewClient(t *testing.T) {
	client := NewClient("my-key")

	if client.rpcURL != MainnetRPCURL+"?api-key=my-key" {
		t.Errorf("expected mainnet rpc url, got '%s'", client.rpcURL)
	}

	if client.apiURL != MainnetAPIURL {
		t.Errorf("expected apiURL to be '%s', got '%s'", MainnetAPIURL, client.apiURL)
	}

	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, client.httpClient.Timeout)
	}

	if client.logger == nil {
		t.Error("expected a default logger")
	}

	if client.jito[RegionNY] != jitoEndpoints[RegionNY] {
		t.Errorf("expected default NY endpoint, got '%s'", client.jito[RegionNY])
	}

	if client.DAS.client != client || client.Mint.client != client || client.Webhooks.client != client ||
		client.Transactions.client != client || client.Helpers.client != client {
		t.Error("expected every service to share the client")
	}
}

func TestNewClientDevnet(t *testing.T) {
	client := NewClient("my-key", WithCluster(ClusterDevnet))

	if !client.IsDevnet() {
		t.Error("expected devnet client")
	}

	if client.rpcURL != DevnetRPCURL+"?api-key=my-key" {
		t.Errorf("expected devnet rpc url, got '%s'", client.rpcURL)
	}

	if client.apiURL != DevnetAPIURL {
		t.Errorf("expected apiURL to be '%s', got '%s'", DevnetAPIURL, client.apiURL)
	}
}

func TestNewClientWithOptions(t *testing.T) {
	customHTTPClient := &http.Client{Timeout: 60 * time.Second}

	client := NewClient(
		"my-key",
		WithRPCURL("https://rpc.example.com"),
		WithAPIURL("https://api.example.com/"),
		WithHTTPClient(customHTTPClient),
		WithJitoURL(RegionTokyo, "https://jito.example.com"),
		WithConfirmationPolling(time.Minute, time.Second),
	)

	if client.rpcURL != "https://rpc.example.com" {
		t.Errorf("expected custom rpc url, got '%s'", client.rpcURL)
	}

	if client.apiURL != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got '%s'", client.apiURL)
	}

	if client.httpClient != customHTTPClient {
		t.Error("expected custom HTTP client")
	}

	if client.jito[RegionTokyo] != "https://jito.example.com" {
		t.Errorf("expected custom Tokyo endpoint, got '%s'", client.jito[RegionTokyo])
	}

	if client.confirmTimeout != time.Minute || client.confirmInterval != time.Second {
		t.Errorf("expected custom polling, got %v/%v", client.confirmTimeout, client.confirmInterval)
	}

	if _, ok := jitoEndpoints[RegionTokyo]; !ok || jitoEndpoints[RegionTokyo] == "https://jito.example.com" {
		t.Error("expected package endpoints to be left untouched")
	}
}

func TestWithTimeout(t *testing.T) {
	client := NewClient("my-key", WithTimeout(5*time.Second))
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", client.httpClient.Timeout)
	}

	shared := &http.Client{Timeout: 60 * time.Second}
	for _, opts := range [][]ClientOption{
		{WithHTTPClient(shared), WithTimeout(time.Second)},
		{WithTimeout(time.Second), WithHTTPClient(shared)},
	} {
		client := NewClient("my-key", opts...)
		if client.httpClient != shared {
			t.Error("expected custom HTTP client")
		}
		if shared.Timeout != 60*time.Second {
			t.Errorf("expected custom client timeout to stay 60s, got %v", shared.Timeout)
		}
	}
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://mainnet.helius-rpc.com/?api-key=secret")
	if strings.Contains(got, "secret") {
		t.Errorf("expected api key to be redacted, got '%s'", got)
	}

	got = redactURL("https://ny.mainnet.block-engine.jito.wtf/api/v1/bundles")
	if got != "https://ny.mainnet.block-engine.jito.wtf/api/v1/bundles" {
		t.Errorf("expected url without key unchanged, got '%s'", got)
	}
}

func TestRPCErrorIsReturnedUnchanged(t *testing.T) {
	node, server := newFakeNode(t)
	node.handle("getAsset", func(json.RawMessage) (interface{}, *RPCError) {
		return nil, &RPCError{Code: -32000, Message: "Asset Not Found"}
	})

	client := newTestClient(server.URL)
	_, err := client.DAS.GetAsset(context.Background(), "missing")

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T: %v", err, err)
	}

	if rpcErr.Code != -32000 || rpcErr.Message != "Asset Not Found" {
		t.Errorf("unexpected error contents: %+v", rpcErr)
	}

	if rpcErr.Method != "getAsset" {
		t.Errorf("expected method 'getAsset', got '%s'", rpcErr.Method)
	}

	if err.Error() != "helius: getAsset: RPC error -32000: Asset Not Found" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestSolanaRPCErrorBecomesRPCError(t *testing.T) {
	node, server := newFakeNode(t)
	node.handle("getBalance", func(json.RawMessage) (interface{}, *RPCError) {
		return nil, &RPCError{Code: -32602, Message: "Invalid param: WrongSize"}
	})

	client := newTestClient(server.URL)
	_, err := client.Helpers.GetBalance(context.Background(), solana.SystemProgramID)

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != -32602 || rpcErr.Message != "Invalid param: WrongSize" || rpcErr.Method != "getBalance" {
		t.Errorf("unexpected error contents: %+v", rpcErr)
	}
}

func TestHTTPErrorBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DAS.GetAssetProof(context.Background(), "asset")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}

	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}

	if apiErr.Message != "rate limited" {
		t.Errorf("expected raw body as message, got '%s'", apiErr.Message)
	}
}

func TestRequestCarriesContext(t *testing.T) {
	node, server := newFakeNode(t)
	node.result("getAsset", map[string]interface{}{"id": "a"})

	client := newTestClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.DAS.GetAsset(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
