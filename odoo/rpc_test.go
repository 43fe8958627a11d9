package odoo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// capturedCall is one decoded request body seen by the test server.
type capturedCall struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      string `json:"id"`
	Params  struct {
		Model  string         `json:"model"`
		Method string         `json:"method"`
		Args   []any          `json:"args"`
		Kwargs map[string]any `json:"kwargs"`
	} `json:"params"`
}

// rpcTestServer serves canned results and records every request.
type rpcTestServer struct {
	*httptest.Server
	calls   []capturedCall
	headers []http.Header
	result  any
	rpcErr  *RPCError
	status  int
}

func newRPCTestServer(t *testing.T) *rpcTestServer {
	t.Helper()
	s := &rpcTestServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call capturedCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			t.Errorf("decode request: %v", err)
		}
		s.calls = append(s.calls, call)
		s.headers = append(s.headers, r.Header.Clone())

		if s.status != 0 {
			w.WriteHeader(s.status)
			return
		}

		resp := map[string]any{"jsonrpc": "2.0"}
		if s.rpcErr != nil {
			resp["error"] = s.rpcErr
		} else {
			resp["result"] = s.result
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestClient(t *testing.T, url string) *RPCClient {
	t.Helper()
	client, err := NewRPCClient(Config{URL: url, Token: "secret"})
	if err != nil {
		t.Fatalf("NewRPCClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRPCClient_Validation(t *testing.T) {
	if _, err := NewRPCClient(Config{Token: "t"}); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := NewRPCClient(Config{URL: "http://x"}); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestSearchPartnerByRFC(t *testing.T) {
	server := newRPCTestServer(t)
	server.result = []map[string]any{{"id": 7, "name": "Acme", "vat": "RFC1"}}
	client := newTestClient(t, server.URL)

	partner, err := client.SearchPartnerByRFC(context.Background(), "RFC1")
	if err != nil {
		t.Fatalf("SearchPartnerByRFC: %v", err)
	}
	if partner == nil || partner.ID != 7 || partner.VAT != "RFC1" {
		t.Errorf("partner = %+v", partner)
	}

	call := server.calls[0]
	if call.JSONRPC != "2.0" || call.Method != "call" || call.ID == "" {
		t.Errorf("envelope: %+v", call)
	}
	if call.Params.Model != "res.partner" || call.Params.Method != "search_read" {
		t.Errorf("params: %+v", call.Params)
	}
	if limit, ok := call.Params.Kwargs["limit"].(float64); !ok || limit != 1 {
		t.Errorf("kwargs = %v, want limit 1", call.Params.Kwargs)
	}
	if got := server.headers[0].Get("Authorization"); got != "Bearer secret" {
		t.Errorf("authorization = %q", got)
	}
	if got := server.headers[0].Get("Content-Type"); got != "application/json" {
		t.Errorf("content-type = %q", got)
	}
}

func TestSearchPartnerByRFC_DomainShape(t *testing.T) {
	server := newRPCTestServer(t)
	server.result = []any{}
	client := newTestClient(t, server.URL)

	_, _ = client.SearchPartnerByRFC(context.Background(), "RFC1")

	// args[0] is the search domain: [["vat", "=", "RFC1"]].
	args := server.calls[0].Params.Args
	if len(args) != 2 {
		t.Fatalf("args = %v, want domain + fields", args)
	}
	domain, ok := args[0].([]any)
	if !ok || len(domain) != 1 {
		t.Fatalf("domain = %v", args[0])
	}
	clause, ok := domain[0].([]any)
	if !ok || len(clause) != 3 || clause[0] != "vat" || clause[1] != "=" || clause[2] != "RFC1" {
		t.Errorf("clause = %v", domain[0])
	}
}

func TestSearchPartnerByRFC_EmptyResultIsNil(t *testing.T) {
	server := newRPCTestServer(t)
	server.result = []any{}
	client := newTestClient(t, server.URL)

	partner, err := client.SearchPartnerByRFC(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("SearchPartnerByRFC: %v", err)
	}
	if partner != nil {
		t.Errorf("partner = %+v, want nil for no match", partner)
	}
}

func TestSearchProductByCode(t *testing.T) {
	server := newRPCTestServer(t)
	server.result = []map[string]any{{"id": 42, "name": "Widget", "default_code": "P1"}}
	client := newTestClient(t, server.URL)

	product, err := client.SearchProductByCode(context.Background(), "P1")
	if err != nil {
		t.Fatalf("SearchProductByCode: %v", err)
	}
	if product == nil || product.ID != 42 || product.DefaultCode != "P1" {
		t.Errorf("product = %+v", product)
	}
	if server.calls[0].Params.Model != "product.product" {
		t.Errorf("model = %q", server.calls[0].Params.Model)
	}
}

func TestOrderExists(t *testing.T) {
	server := newRPCTestServer(t)
	server.result = []map[string]any{{"id": 9}}
	client := newTestClient(t, server.URL)

	exists, err := client.OrderExists(context.Background(), "OC-100")
	if err != nil {
		t.Fatalf("OrderExists: %v", err)
	}
	if !exists {
		t.Error("exists = false, want true")
	}
	if server.calls[0].Params.Model != "purchase.order" {
		t.Errorf("model = %q", server.calls[0].Params.Model)
	}

	server.result = []any{}
	exists, err = client.OrderExists(context.Background(), "OC-999")
	if err != nil {
		t.Fatalf("OrderExists: %v", err)
	}
	if exists {
		t.Error("exists = true, want false")
	}
}

func TestCreateOrder(t *testing.T) {
	server := newRPCTestServer(t)
	server.result = 12345
	client := newTestClient(t, server.URL)

	currency := int64(33)
	vals := OrderVals{
		PartnerID:  7,
		Origin:     "OC-100",
		DateOrder:  "2024-01-15",
		CurrencyID: &currency,
		Lines: []OrderLine{{
			ProductID: 42,
			Name:      "Widget",
			Quantity:  decimal.RequireFromString("10"),
			PriceUnit: decimal.RequireFromString("5.50"),
		}},
	}

	id, err := client.CreateOrder(context.Background(), vals)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if id != 12345 {
		t.Errorf("id = %d, want 12345", id)
	}

	call := server.calls[0]
	if call.Params.Model != "purchase.order" || call.Params.Method != "create" {
		t.Errorf("params: %+v", call.Params)
	}
	payload, ok := call.Params.Args[0].(map[string]any)
	if !ok {
		t.Fatalf("args[0] = %v", call.Params.Args[0])
	}
	if payload["origin"] != "OC-100" || payload["date_order"] != "2024-01-15" {
		t.Errorf("payload: %v", payload)
	}
	if payload["currency_id"] != float64(33) {
		t.Errorf("currency_id = %v", payload["currency_id"])
	}
	if _, present := payload["project_id"]; present {
		t.Error("project_id should be omitted when nil")
	}

	lines, ok := payload["order_line"].([]any)
	if !ok || len(lines) != 1 {
		t.Fatalf("order_line = %v", payload["order_line"])
	}
	triplet, ok := lines[0].([]any)
	if !ok || len(triplet) != 3 || triplet[0] != float64(0) || triplet[1] != float64(0) {
		t.Fatalf("line command = %v, want [0, 0, vals]", lines[0])
	}
	lineVals := triplet[2].(map[string]any)
	if lineVals["product_id"] != float64(42) || lineVals["name"] != "Widget" {
		t.Errorf("line vals: %v", lineVals)
	}
	if lineVals["price_unit"] != 5.5 {
		t.Errorf("price_unit = %v", lineVals["price_unit"])
	}
}

func TestCall_RPCErrorPayload(t *testing.T) {
	server := newRPCTestServer(t)
	server.rpcErr = &RPCError{Code: 200, Message: "Odoo Server Error"}
	client := newTestClient(t, server.URL)

	_, err := client.SearchPartnerByRFC(context.Background(), "RFC1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrRemote) {
		t.Errorf("err = %v, want ErrRemote", err)
	}
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) || rpcErr.Message != "Odoo Server Error" {
		t.Errorf("rpc error lost from chain: %v", err)
	}
}

func TestCall_AuthFailure(t *testing.T) {
	server := newRPCTestServer(t)
	server.status = http.StatusUnauthorized
	client := newTestClient(t, server.URL)

	_, err := client.SearchPartnerByRFC(context.Background(), "RFC1")
	if !errors.Is(err, ErrAuth) {
		t.Errorf("err = %v, want ErrAuth", err)
	}
}

func TestCall_ServerErrorStatus(t *testing.T) {
	server := newRPCTestServer(t)
	server.status = http.StatusInternalServerError
	client := newTestClient(t, server.URL)

	_, err := client.OrderExists(context.Background(), "OC-100")
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 500 {
		t.Errorf("err = %v, want StatusError 500", err)
	}
}

func TestCall_NetworkFailure(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	_, err := client.SearchPartnerByRFC(context.Background(), "RFC1")
	if err == nil {
		t.Fatal("expected error")
	}
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("err = %T, want CallError", err)
	}
	if callErr.Op != "res.partner.search_read" {
		t.Errorf("op = %q", callErr.Op)
	}
}

func TestWire_DecimalPrecision(t *testing.T) {
	vals := OrderVals{
		PartnerID: 1,
		Origin:    "OC-1",
		DateOrder: "2024-01-15",
		Lines: []OrderLine{{
			ProductID: 2,
			Name:      "Widget",
			Quantity:  decimal.RequireFromString("0.1"),
			PriceUnit: decimal.RequireFromString("19.99"),
		}},
	}

	data, err := json.Marshal(vals.wire())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// json.Number keeps the decimal text exact on the wire.
	for _, want := range []string{`"product_qty":0.1`, `"price_unit":19.99`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("wire payload %s missing %s", data, want)
		}
	}
}
