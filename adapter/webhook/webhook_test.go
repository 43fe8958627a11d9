package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arrecife-io/ocimport/adapter"
)

func sampleEvent() *adapter.ImportCompletedEvent {
	return &adapter.ImportCompletedEvent{
		ContractVersion: "0.2.0",
		EventType:       "import_completed",
		RunID:           "run-1",
		Input:           "orders.csv",
		Rows:            10,
		Processed:       8,
		Quarantined:     2,
		DurationMs:      1500,
		Timestamp:       "2024-01-15T10:00:00Z",
	}
}

func TestNew_RequiresURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestPublish(t *testing.T) {
	var received adapter.ImportCompletedEvent
	var contentType, custom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		custom = r.Header.Get("X-Auth")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	a, err := New(Config{URL: server.URL, Headers: map[string]string{"X-Auth": "token"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("content-type = %q", contentType)
	}
	if custom != "token" {
		t.Errorf("custom header = %q", custom)
	}
	if received.RunID != "run-1" || received.Processed != 8 || received.EventType != "import_completed" {
		t.Errorf("received event: %+v", received)
	}
}

func TestPublish_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	a, err := New(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = a.Close() }()

	err = a.Publish(context.Background(), sampleEvent())
	if err == nil {
		t.Fatal("expected error for 502")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusBadGateway {
		t.Errorf("err = %v, want StatusError 502", err)
	}
}

func TestPublish_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	a, err := New(Config{URL: url})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Publish(context.Background(), sampleEvent()); err == nil {
		t.Error("expected error for refused connection")
	}
}
