package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestWebhookClient() *webhookClient {
	c := newWebhookClient("test", 5*time.Second, 100, 100)
	c.baseDelay = 10 * time.Millisecond
	return c
}

func TestWebhookClient_post(t *testing.T) {
	t.Run("should succeed with 200 OK response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected Content-Type=application/json, got %q", r.Header.Get("Content-Type"))
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := newTestWebhookClient()
		err := client.post(context.Background(), server.URL, "#general", map[string]string{"text": "hello"})
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("should retry after 429 using retry_after from body", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"retry_after": 0.01}`))
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestWebhookClient()
		err := client.post(context.Background(), server.URL, "#general", map[string]string{"text": "hello"})
		if err != nil {
			t.Errorf("expected success after retry, got %v", err)
		}
		if got := calls.Load(); got != 2 {
			t.Errorf("expected 2 requests, got %d", got)
		}
	})

	t.Run("should use Retry-After header when body has no retry_after", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok": false}`))
		}))
		defer server.Close()

		client := newTestWebhookClient()
		err := client.send(context.Background(), server.URL, []byte(`{}`))

		rateLimitErr, ok := asRateLimitError(err)
		if !ok {
			t.Fatalf("expected RateLimitError, got %v", err)
		}
		if rateLimitErr.RetryAfter != 2*time.Second {
			t.Errorf("expected retry after 2s, got %v", rateLimitErr.RetryAfter)
		}
	})

	t.Run("should not retry 4xx client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("no_service"))
		}))
		defer server.Close()

		client := newTestWebhookClient()
		err := client.post(context.Background(), server.URL, "#general", map[string]string{"text": "hello"})

		var clientErr *ClientError
		if !errors.As(err, &clientErr) {
			t.Fatalf("expected ClientError, got %v", err)
		}
		if clientErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", clientErr.StatusCode)
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("expected exactly 1 request for a client error, got %d", got)
		}
	})

	t.Run("should retry 5xx server errors with backoff", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestWebhookClient()
		err := client.post(context.Background(), server.URL, "#general", map[string]string{"text": "hello"})
		if err != nil {
			t.Errorf("expected success after retry, got %v", err)
		}
		if got := calls.Load(); got != 2 {
			t.Errorf("expected 2 requests, got %d", got)
		}
	})

	t.Run("should give up after max attempts", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestWebhookClient()
		err := client.post(context.Background(), server.URL, "#general", map[string]string{"text": "hello"})
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if !strings.Contains(err.Error(), "after 2 attempts") {
			t.Errorf("expected exhaustion message, got %q", err.Error())
		}
		if got := calls.Load(); got != int32(webhookMaxAttempts) {
			t.Errorf("expected %d requests, got %d", webhookMaxAttempts, got)
		}
	})

	t.Run("should stop retrying when context is canceled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestWebhookClient()
		client.baseDelay = 5 * time.Second

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		err := client.post(ctx, server.URL, "#general", map[string]string{"text": "hello"})
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled in chain, got %v", err)
		}
	})
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &ServerError{StatusCode: 500}, true},
		{"client error", &ClientError{StatusCode: 404}, false},
		{"rate limit error", &RateLimitError{RetryAfter: time.Second}, false},
		{"network error", errors.New("connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Run("should not truncate short text", func(t *testing.T) {
		if got := truncate("short", 100, "..."); got != "short" {
			t.Errorf("expected %q, got %q", "short", got)
		}
	})

	t.Run("should truncate long text with suffix", func(t *testing.T) {
		got := truncate(strings.Repeat("a", 100), 50, "...")
		if len(got) != 50 {
			t.Errorf("expected length=50, got %d", len(got))
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("expected result to end with '...', got %q", got)
		}
	})

	t.Run("should handle exact length", func(t *testing.T) {
		text := strings.Repeat("a", 50)
		if got := truncate(text, 50, "..."); got != text {
			t.Error("expected no truncation for exact length match")
		}
	})
}
