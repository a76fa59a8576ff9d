package fetch

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("sends browser headers", func(t *testing.T) {
		t.Parallel()

		var got http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		c, err := NewClient(WithUserAgent("test-agent"), WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Fetch(context.Background(), server.URL, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := map[string]string{
			"User-Agent":       "test-agent",
			"Accept":           "application/json, text/javascript, */*; q=0.01",
			"Accept-Language":  "en-US",
			"X-Requested-With": "XMLHttpRequest",
		}
		for k, v := range want {
			if got.Get(k) != v {
				t.Errorf("header %s: expected %q, got %q", k, v, got.Get(k))
			}
		}
	})

	t.Run("detects JSON from content type", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{"recordsTotal": 1}`))
		}))
		defer server.Close()

		c, err := NewClient(WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		p, err := c.Fetch(context.Background(), server.URL, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.IsJSON {
			t.Fatal("expected JSON payload")
		}
		var v struct {
			RecordsTotal int `json:"recordsTotal"`
		}
		if err := p.Decode(&v); err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if v.RecordsTotal != 1 {
			t.Errorf("expected 1, got %d", v.RecordsTotal)
		}
	})

	t.Run("text payload refuses to decode", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>hi</p>"))
		}))
		defer server.Close()

		c, err := NewClient(WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		p, err := c.Fetch(context.Background(), server.URL, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Text() != "<p>hi</p>" {
			t.Errorf("unexpected body %q", p.Text())
		}
		var v map[string]any
		if err := p.Decode(&v); err == nil {
			t.Error("expected decode error for HTML payload")
		}
	})

	t.Run("non-200 is HTTPStatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c, err := NewClient(WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		_, err = c.Fetch(context.Background(), server.URL, true)
		var statusErr *HTTPStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected HTTPStatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", statusErr.StatusCode)
		}
		if !IsRetryable(err) {
			t.Error("expected status error to be retryable")
		}
	})

	t.Run("connection refused is NetworkError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		c, err := NewClient(WithTimeout(2*time.Second), WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		_, err = c.Fetch(context.Background(), url, false)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected NetworkError, got %v", err)
		}
		if !IsRetryable(err) {
			t.Error("expected network error to be retryable")
		}
	})
}

func TestClientTLSFallback(t *testing.T) {
	t.Parallel()

	t.Run("self-signed certificate falls back once", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		c, err := NewClient(WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		p, err := c.Fetch(context.Background(), server.URL, false)
		if err != nil {
			t.Fatalf("expected fallback to succeed, got %v", err)
		}
		if p.Text() != "ok" {
			t.Errorf("unexpected body %q", p.Text())
		}
		if hits.Load() != 1 {
			t.Errorf("expected exactly one request to reach the handler, got %d", hits.Load())
		}
	})

	t.Run("no fallback transport yields TLSError", func(t *testing.T) {
		t.Parallel()

		rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("handshake: %w", x509.UnknownAuthorityError{})
		})
		c, err := NewClient(WithHTTPClient(&http.Client{Transport: rt}), WithLogger(testLogger()))
		if err != nil {
			t.Fatal(err)
		}
		_, err = c.Fetch(context.Background(), "https://example.invalid/", false)
		var tlsErr *TLSError
		if !errors.As(err, &tlsErr) {
			t.Fatalf("expected TLSError, got %v", err)
		}
	})
}

func TestClientRequestInterval(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	interval := 50 * time.Millisecond
	c, err := NewClient(WithRequestInterval(interval), WithLogger(testLogger()))
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for range 3 {
		if _, err := c.Fetch(context.Background(), server.URL, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// The first request uses the initial token; the next two wait.
	if elapsed := time.Since(start); elapsed < 2*interval-10*time.Millisecond {
		t.Errorf("expected requests to be paced, took %v", elapsed)
	}
}

func TestClientCancelledContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c, err := NewClient(WithLogger(testLogger()))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Fetch(ctx, server.URL, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("expected cancellation not to be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "wrapped network error", err: fmt.Errorf("page 2: %w", &NetworkError{URL: "u", Err: io.EOF}), want: true},
		{name: "tls error", err: &TLSError{URL: "u", Err: io.EOF}, want: true},
		{name: "status error", err: &HTTPStatusError{URL: "u", StatusCode: 500, Status: "500"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewClientWithProxy(t *testing.T) {
	t.Parallel()

	c, err := NewClient(WithProxy("127.0.0.1:9050"), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.insecureClient == nil {
		t.Error("expected insecure fallback client to be prepared")
	}
	if !strings.Contains(c.proxyAddress, "9050") {
		t.Errorf("unexpected proxy address %q", c.proxyAddress)
	}
}
