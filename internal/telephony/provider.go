package telephony

import (
	"context"
	"errors"
)

// Provider is the provider-agnostic interface used by the reconciliation
// engine.
//
// Rules:
// - No provider SDK calls outside telephony adapters.
// - Responses carry the provider's raw status string; normalization to the
//   canonical vocabulary happens in internal/calls, never here.
type Provider interface {
	Name() string
	HealthCheck(ctx context.Context) error

	// FetchCallState returns the provider's current view of a call. Network
	// failures and non-2xx responses surface as ErrProviderUnavailable so
	// callers can retry without touching local state.
	FetchCallState(ctx context.Context, externalCallID string) (CallState, error)
}

// ErrProviderUnavailable marks retryable provider failures. The local
// session record must be left unchanged when this is returned.
var ErrProviderUnavailable = errors.New("telephony: provider unavailable")

// CallState is the subset of the provider's call record we consume.
type CallState struct {
	ExternalCallID string `json:"external_call_id"`

	// Status is the provider's raw vocabulary (e.g. "answered", "busy").
	Status string `json:"status"`

	DurationSeconds int    `json:"duration_seconds"`
	RecordingURL    string `json:"recording_url,omitempty"`
}
