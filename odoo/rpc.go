package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the fixed per-call timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// Config configures the JSON-RPC client.
type Config struct {
	// URL is the JSON-RPC endpoint (required).
	URL string
	// Token is the bearer credential attached to every call (required).
	Token string
	// Timeout is the per-call timeout (default 30s).
	Timeout time.Duration
}

// RPCClient implements Client over the remote JSON-RPC endpoint.
// One call primitive carries every operation; a fresh call id is
// attached per request.
type RPCClient struct {
	config Config
	client *http.Client
}

// NewRPCClient creates a client from the given config.
func NewRPCClient(cfg Config) (*RPCClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("odoo client requires a URL")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("odoo client requires a token")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &RPCClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// callParams is the generic dispatch payload: target model, operation
// name, positional args, and keyword options such as the result limit.
type callParams struct {
	Model  string         `json:"model"`
	Method string         `json:"method"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs,omitempty"`
}

type rpcRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  callParams `json:"params"`
	ID      string     `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// call performs one generic JSON-RPC call and returns the raw result.
// Network failures, non-2xx responses, and application-level error
// payloads all surface as classified errors.
func (c *RPCClient) call(ctx context.Context, params callParams) (json.RawMessage, error) {
	op := params.Model + "." + params.Method

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  params,
		ID:      uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request for %s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, WrapCallError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain body to allow connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, WrapCallError(op, &StatusError{Code: resp.StatusCode})
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, WrapCallError(op, fmt.Errorf("decode response: %w", err))
	}
	if decoded.Error != nil {
		return nil, WrapCallError(op, decoded.Error)
	}
	return decoded.Result, nil
}

// searchRead performs a limit-1 search_read on model for field = value.
func (c *RPCClient) searchRead(ctx context.Context, model, field, value string, fields []string) (json.RawMessage, error) {
	args := []any{
		[]any{[]any{field, "=", value}},
	}
	if fields != nil {
		args = append(args, fields)
	}
	return c.call(ctx, callParams{
		Model:  model,
		Method: "search_read",
		Args:   args,
		Kwargs: map[string]any{"limit": 1},
	})
}

// SearchPartnerByRFC implements Client.
func (c *RPCClient) SearchPartnerByRFC(ctx context.Context, rfc string) (*Partner, error) {
	raw, err := c.searchRead(ctx, modelPartner, fieldVAT, rfc, []string{"id", "name", "vat"})
	if err != nil {
		return nil, err
	}
	var partners []Partner
	if err := json.Unmarshal(raw, &partners); err != nil {
		return nil, WrapCallError(modelPartner+".search_read", fmt.Errorf("decode result: %w", err))
	}
	if len(partners) == 0 {
		return nil, nil
	}
	return &partners[0], nil
}

// SearchProductByCode implements Client.
func (c *RPCClient) SearchProductByCode(ctx context.Context, code string) (*Product, error) {
	raw, err := c.searchRead(ctx, modelProduct, fieldDefaultCode, code, []string{"id", "name", "default_code"})
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, WrapCallError(modelProduct+".search_read", fmt.Errorf("decode result: %w", err))
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// OrderExists implements Client.
func (c *RPCClient) OrderExists(ctx context.Context, origin string) (bool, error) {
	raw, err := c.searchRead(ctx, modelOrder, fieldOrigin, origin, []string{"id"})
	if err != nil {
		return false, err
	}
	var orders []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &orders); err != nil {
		return false, WrapCallError(modelOrder+".search_read", fmt.Errorf("decode result: %w", err))
	}
	return len(orders) > 0, nil
}

// CreateOrder implements Client.
func (c *RPCClient) CreateOrder(ctx context.Context, vals OrderVals) (int64, error) {
	raw, err := c.call(ctx, callParams{
		Model:  modelOrder,
		Method: "create",
		Args:   []any{vals.wire()},
	})
	if err != nil {
		return 0, err
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, WrapCallError(modelOrder+".create", fmt.Errorf("decode result: %w", err))
	}
	return id, nil
}

// Close implements Client.
func (c *RPCClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// wire encodes the creation payload in the remote system's vals format.
// Order lines use the [0, 0, vals] command triplet; decimal fields are
// emitted as exact JSON numbers via json.Number.
func (v OrderVals) wire() map[string]any {
	lines := make([]any, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, []any{0, 0, map[string]any{
			"product_id":  l.ProductID,
			"name":        l.Name,
			"product_qty": json.Number(l.Quantity.String()),
			"price_unit":  json.Number(l.PriceUnit.String()),
		}})
	}

	m := map[string]any{
		"partner_id": v.PartnerID,
		"origin":     v.Origin,
		"date_order": v.DateOrder,
		"order_line": lines,
	}
	if v.CurrencyID != nil {
		m["currency_id"] = *v.CurrencyID
	}
	if v.ProjectID != nil {
		m["project_id"] = *v.ProjectID
	}
	return m
}

// Verify RPCClient implements Client.
var _ Client = (*RPCClient)(nil)
