package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	webhookMaxAttempts = 2
	webhookBaseDelay   = 5 * time.Second
	defaultRetryAfter  = 5 * time.Second
)

// webhookClient posts JSON payloads to a provider webhook with rate
// limiting and the shared retry policy:
//   - 429: sleep for the provider's retry_after, then retry
//   - 5xx and network errors: exponential backoff, max 2 attempts
//   - other 4xx: fail immediately, never retried
type webhookClient struct {
	provider   string
	httpClient *http.Client
	limiter    *RateLimiter

	// baseDelay is the first retry backoff. Overridable in tests.
	baseDelay time.Duration
}

func newWebhookClient(provider string, timeout time.Duration, requestsPerSecond float64, burst int) *webhookClient {
	return &webhookClient{
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    NewRateLimiter(requestsPerSecond, burst),
		baseDelay:  webhookBaseDelay,
	}
}

// post marshals payload and delivers it to url, applying rate limiting
// and the retry policy. channel is only used for logging.
func (c *webhookClient) post(ctx context.Context, url, channel string, payload any) error {
	if err := c.limiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= webhookMaxAttempts; attempt++ {
		err := c.send(ctx, url, jsonData)
		if err == nil {
			slog.Debug("webhook delivered",
				slog.String("provider", c.provider),
				slog.String("channel", channel),
				slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		if rateLimitErr, ok := asRateLimitError(err); ok {
			slog.Warn("webhook rate limit hit, backing off",
				slog.String("provider", c.provider),
				slog.String("channel", channel),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))
			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			return err
		}

		if attempt < webhookMaxAttempts {
			delay := c.baseDelay * time.Duration(attempt)
			slog.Warn("webhook request failed, retrying",
				slog.String("provider", c.provider),
				slog.String("channel", channel),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("%s webhook failed after %d attempts: %w", c.provider, webhookMaxAttempts, lastErr)
}

// send performs one HTTP POST and classifies the response.
func (c *webhookClient) send(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    fmt.Sprintf("%s rate limit exceeded", c.provider),
			RetryAfter: extractRetryAfter(resp, respBody),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API client error (%d): %s", c.provider, resp.StatusCode, string(respBody)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API server error (%d): %s", c.provider, resp.StatusCode, string(respBody)),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
}

// retryAfterBody is the JSON shape Discord (and compatible APIs) use to
// report rate limits.
type retryAfterBody struct {
	RetryAfter float64 `json:"retry_after"` // seconds
}

// extractRetryAfter pulls the retry_after duration from a 429 response,
// trying the JSON body first and the Retry-After header second.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var parsed retryAfterBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}

	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return defaultRetryAfter
}
