package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSONRetriesOnceOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(Config{MaxRetries: 1, Backoff: time.Millisecond})
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("get json: %v", err)
	}
	if !out.OK || calls.Load() != 2 {
		t.Fatalf("unexpected result ok=%v calls=%d", out.OK, calls.Load())
	}
}

func TestGetNeverRetriesMoreThanOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{MaxRetries: 10, Backoff: time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL)
	if !IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("unexpected attempts got=%d want=2", calls.Load())
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{MaxRetries: 1, Backoff: time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL)
	if err == nil || IsTransient(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("unexpected attempts got=%d want=1", calls.Load())
	}
}

func TestGetTimesOut(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{Timeout: 50 * time.Millisecond, MaxRetries: 0})
	start := time.Now()
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("request was not bounded by timeout: %s", elapsed)
	}
}

func TestRedactDropsQuery(t *testing.T) {
	t.Parallel()

	if got := redact("https://user:pw@api.example/v1/teams?key=secret"); got != "https://api.example/v1/teams" {
		t.Fatalf("unexpected redacted url: %q", got)
	}
}
