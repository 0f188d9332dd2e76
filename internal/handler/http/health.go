// Package http provides the HTTP surface of the service: the rule
// management API, the dispatch hook endpoints, health checks, metrics,
// and shared middleware.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"chat-integration/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"` // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler reports service health. It pings the database and lists
// the enabled providers so operators can see at a glance what a node
// will dispatch to.
type HealthHandler struct {
	DB      *sql.DB
	Version string

	// EnabledProviders returns the names of providers accepting deliveries.
	EnabledProviders func() []string
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus, 2)
	healthy := true

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		healthy = false
		checks["database"] = CheckStatus{Status: "unhealthy", Message: "ping failed"}
	} else {
		checks["database"] = CheckStatus{Status: "healthy"}
	}

	if h.EnabledProviders != nil {
		providers := h.EnabledProviders()
		status := CheckStatus{Status: "healthy"}
		if len(providers) == 0 {
			// A node with no providers is up but delivers nothing.
			status = CheckStatus{Status: "unhealthy", Message: "no providers enabled"}
			healthy = false
		}
		checks["providers"] = status
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}
