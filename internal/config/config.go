// Package config assembles the application configuration: server and
// dispatch settings from environment variables, provider transports
// from a YAML file.
package config

import (
	"time"

	pkgconfig "chat-integration/internal/pkg/config"
)

// Config holds the server and dispatch settings read at startup.
type Config struct {
	// Addr is the listen address of the management and hook API.
	Addr string

	// DatabaseDriver selects the storage backend: postgres or sqlite.
	DatabaseDriver string

	// DatabaseDSN is the connection string for the selected driver.
	DatabaseDSN string

	// NotificationDelay is how long a published post waits before its
	// dispatch cycle runs, giving quick deletions a chance to cancel.
	NotificationDelay time.Duration

	// MaxConcurrentDeliveries bounds parallel deliveries in one cycle.
	MaxConcurrentDeliveries int

	// RequestTimeout bounds handling of one management API request.
	RequestTimeout time.Duration

	// RateLimitRequests and RateLimitWindow configure the per-IP
	// sliding window limiter on mutating management routes.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// MaxBodyBytes caps request body sizes on the API.
	MaxBodyBytes int64

	// ProvidersFile is the path of the provider YAML configuration.
	ProvidersFile string
}

const (
	defaultAddr              = ":8080"
	defaultDriver            = "postgres"
	defaultNotificationDelay = 20 * time.Second
	defaultMaxConcurrent     = 8
	defaultRequestTimeout    = 30 * time.Second
	defaultRateLimitRequests = 60
	defaultRateLimitWindow   = time.Minute
	defaultMaxBodyBytes      = 1 << 20
	defaultProvidersFile     = "configs/providers.yaml"
)

var configMetrics = pkgconfig.NewConfigMetrics("chat_integration")

// Load reads the configuration from the environment. It never fails:
// invalid values fall back to defaults and are reported as warnings for
// the caller to log.
func Load() (*Config, []string) {
	var warnings []string
	collect := func(r pkgconfig.ConfigLoadResult, field string) pkgconfig.ConfigLoadResult {
		if r.FallbackApplied {
			configMetrics.RecordFallback(field)
			warnings = append(warnings, r.Warnings...)
		}
		return r
	}

	driver := collect(pkgconfig.LoadEnvWithFallback("DB_DRIVER", defaultDriver, validateDriver), "db_driver")
	delay := collect(pkgconfig.LoadEnvDuration(
		"NOTIFICATION_DELAY", defaultNotificationDelay,
		func(d time.Duration) error { return pkgconfig.ValidateDuration(d, 0, time.Hour) },
	), "notification_delay")
	maxConcurrent := collect(pkgconfig.LoadEnvInt(
		"MAX_CONCURRENT_DELIVERIES", defaultMaxConcurrent,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, 64) },
	), "max_concurrent_deliveries")
	requestTimeout := collect(pkgconfig.LoadEnvDuration(
		"REQUEST_TIMEOUT", defaultRequestTimeout, pkgconfig.ValidatePositiveDuration,
	), "request_timeout")
	rateLimitRequests := collect(pkgconfig.LoadEnvInt(
		"RATE_LIMIT_REQUESTS", defaultRateLimitRequests,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, 10000) },
	), "rate_limit_requests")
	rateLimitWindow := collect(pkgconfig.LoadEnvDuration(
		"RATE_LIMIT_WINDOW", defaultRateLimitWindow, pkgconfig.ValidatePositiveDuration,
	), "rate_limit_window")

	cfg := &Config{
		Addr:                    pkgconfig.LoadEnvString("ADDR", defaultAddr),
		DatabaseDriver:          driver.Value.(string),
		DatabaseDSN:             pkgconfig.LoadEnvString("DATABASE_URL", ""),
		NotificationDelay:       delay.Value.(time.Duration),
		MaxConcurrentDeliveries: maxConcurrent.Value.(int),
		RequestTimeout:          requestTimeout.Value.(time.Duration),
		RateLimitRequests:       rateLimitRequests.Value.(int),
		RateLimitWindow:         rateLimitWindow.Value.(time.Duration),
		MaxBodyBytes:            defaultMaxBodyBytes,
		ProvidersFile:           pkgconfig.LoadEnvString("PROVIDERS_FILE", defaultProvidersFile),
	}

	configMetrics.RecordLoadTimestamp()
	configMetrics.SetFallbackActive(len(warnings) > 0)
	return cfg, warnings
}

func validateDriver(driver string) error {
	switch driver {
	case "postgres", "sqlite":
		return nil
	}
	return errUnknownDriver
}
