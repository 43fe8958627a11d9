package odoo

import "context"

// StubClient is a test double for Client. Lookups resolve against the
// configured maps; every call is recorded in Calls for assertions on
// which operations were attempted.
type StubClient struct {
	PartnersByRFC  map[string]*Partner
	ProductsByCode map[string]*Product
	Origins        map[string]bool

	// NextID is the id returned by the next successful CreateOrder.
	// Increments after each create.
	NextID int64

	// Error injection per operation. Nil means the call succeeds.
	PartnerErr error
	ProductErr error
	ExistsErr  error
	CreateErr  error

	// Created records every CreateOrder payload accepted.
	Created []OrderVals
	// Calls records operation names in invocation order.
	Calls []string

	Closed bool
}

// NewStubClient creates an empty stub with ids starting at 1000.
func NewStubClient() *StubClient {
	return &StubClient{
		PartnersByRFC:  make(map[string]*Partner),
		ProductsByCode: make(map[string]*Product),
		Origins:        make(map[string]bool),
		NextID:         1000,
	}
}

// SearchPartnerByRFC implements Client.
func (s *StubClient) SearchPartnerByRFC(_ context.Context, rfc string) (*Partner, error) {
	s.Calls = append(s.Calls, "search_partner")
	if s.PartnerErr != nil {
		return nil, s.PartnerErr
	}
	return s.PartnersByRFC[rfc], nil
}

// SearchProductByCode implements Client.
func (s *StubClient) SearchProductByCode(_ context.Context, code string) (*Product, error) {
	s.Calls = append(s.Calls, "search_product")
	if s.ProductErr != nil {
		return nil, s.ProductErr
	}
	return s.ProductsByCode[code], nil
}

// OrderExists implements Client.
func (s *StubClient) OrderExists(_ context.Context, origin string) (bool, error) {
	s.Calls = append(s.Calls, "order_exists")
	if s.ExistsErr != nil {
		return false, s.ExistsErr
	}
	return s.Origins[origin], nil
}

// CreateOrder implements Client. Successful creates mark the origin as
// existing, so a second row with the same origin sees a duplicate.
func (s *StubClient) CreateOrder(_ context.Context, vals OrderVals) (int64, error) {
	s.Calls = append(s.Calls, "create_order")
	if s.CreateErr != nil {
		return 0, s.CreateErr
	}
	s.Created = append(s.Created, vals)
	s.Origins[vals.Origin] = true
	id := s.NextID
	s.NextID++
	return id, nil
}

// Close implements Client.
func (s *StubClient) Close() error {
	s.Closed = true
	return nil
}

// CallCount returns how many times op was invoked.
func (s *StubClient) CallCount(op string) int {
	n := 0
	for _, c := range s.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// Verify StubClient implements Client.
var _ Client = (*StubClient)(nil)
