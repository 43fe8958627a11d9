package odoo

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for remote call failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrTimeout indicates the call exceeded the per-call timeout.
	ErrTimeout = errors.New("operation timed out")

	// ErrNetwork indicates a network-level failure (connection refused, DNS).
	ErrNetwork = errors.New("network error")

	// ErrAuth indicates the credential was rejected (401/403).
	ErrAuth = errors.New("authentication failed")

	// ErrRemote indicates an application-level error payload from the
	// remote system (the call reached it and was rejected).
	ErrRemote = errors.New("remote application error")
)

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// RPCError is the structured error payload of a JSON-RPC response.
type RPCError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("rpc error %d", e.Code)
}

// CallError wraps an underlying failure with its classification and the
// remote operation (model.method). The original error stays in the
// chain for errors.As inspection.
type CallError struct {
	// Kind is the sentinel error for classification.
	Kind error
	// Op is the remote operation that failed, e.g. "res.partner.search_read".
	Op string
	// Err is the underlying error.
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *CallError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *CallError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// WrapCallError classifies and wraps a remote call error.
// Returns nil if err is nil.
func WrapCallError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Kind: classify(err), Op: op, Err: err}
}

// classify determines the sentinel for a remote call failure.
func classify(err error) error {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return ErrRemote
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case 401, 403:
			return ErrAuth
		}
		return ErrRemote
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return ErrTimeout
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network unreachable"),
		strings.Contains(msg, "dial tcp"):
		return ErrNetwork
	default:
		return ErrRemote
	}
}
