package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"matrimony-platform/internal/config"
)

// Client talks to the provider's REST call-status endpoint, authenticated
// with the static account/token pair.
//
// One GET per reconciliation; the request timeout bounds the round trip so
// a stalled provider never holds up a request worker indefinitely.
type Client struct {
	baseURL   string
	accountID string
	authToken string
	http      *http.Client
}

func NewClient(cfg config.ProviderConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		accountID: cfg.AccountID,
		authToken: cfg.AuthToken,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "telephony-rest" }

func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountID, c.authToken)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: health status %d", ErrProviderUnavailable, res.StatusCode)
	}
	return nil
}

// callStatusResponse mirrors the provider's call-status payload.
type callStatusResponse struct {
	CallID       string `json:"call_id"`
	Status       string `json:"status"`
	Duration     int    `json:"duration"`
	RecordingURL string `json:"recording_url"`
}

func (c *Client) FetchCallState(ctx context.Context, externalCallID string) (CallState, error) {
	if externalCallID == "" {
		return CallState{}, fmt.Errorf("telephony: external call id is required")
	}

	u := fmt.Sprintf("%s/v1/calls/%s", c.baseURL, url.PathEscape(externalCallID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return CallState{}, err
	}
	req.SetBasicAuth(c.accountID, c.authToken)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return CallState{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return CallState{}, fmt.Errorf("%w: status %d for call %s", ErrProviderUnavailable, res.StatusCode, externalCallID)
	}

	var body callStatusResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return CallState{}, fmt.Errorf("%w: decode: %v", ErrProviderUnavailable, err)
	}

	if body.Duration < 0 {
		body.Duration = 0
	}
	return CallState{
		ExternalCallID:  externalCallID,
		Status:          body.Status,
		DurationSeconds: body.Duration,
		RecordingURL:    body.RecordingURL,
	}, nil
}
