package telephony

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"matrimony-platform/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.ProviderConfig{
		BaseURL:   srv.URL,
		AccountID: "AC1",
		AuthToken: "tok",
	})
	return c, srv
}

func TestFetchCallState_ParsesResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/calls/CA123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC1" || pass != "tok" {
			t.Errorf("expected basic auth credentials")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"call_id":"CA123","status":"answered","duration":95,"recording_url":"https://rec.example/1"}`))
	})

	st, err := c.FetchCallState(context.Background(), "CA123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.Status != "answered" || st.DurationSeconds != 95 || st.RecordingURL != "https://rec.example/1" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestFetchCallState_Non2xxIsRetryable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.FetchCallState(context.Background(), "CA123")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestFetchCallState_NetworkErrorIsRetryable(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.FetchCallState(context.Background(), "CA123")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestFetchCallState_NegativeDurationClamped(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"call_id":"CA9","status":"completed","duration":-5}`))
	})

	st, err := c.FetchCallState(context.Background(), "CA9")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.DurationSeconds != 0 {
		t.Fatalf("expected clamped duration, got %d", st.DurationSeconds)
	}
}
