// Package notifier contains the concrete chat provider transports:
// webhook-based providers (Slack, Discord, Mattermost) and the Telegram
// bot API. Each provider renders the neutral message into its own wire
// format and owns its rate limiting, retries, and timeouts.
package notifier

import (
	"errors"
	"fmt"
	"time"
)

// Common webhook error types shared by all webhook transports.

// RateLimitError represents a 429 rate limit error from a provider.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a provider: bad
// webhook URL, unknown channel, revoked token. Never retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a provider. Retryable.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// asRateLimitError checks if the error is a rate limit error and extracts retry_after.
func asRateLimitError(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// isRetryableError reports whether the error is worth retrying: server
// errors and network errors are, client errors are not. Rate limits are
// handled separately via asRateLimitError.
func isRetryableError(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return false
	}
	return true
}

// truncate shortens text to maxLength characters, appending suffix when
// anything was cut.
func truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	truncateAt := maxLength - len(suffix)
	if truncateAt < 0 {
		truncateAt = 0
	}
	return text[:truncateAt] + suffix
}
