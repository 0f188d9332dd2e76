package rule

import (
	"net/http"

	ruleUC "chat-integration/internal/usecase/rule"
)

// Register mounts the rule management routes on mux. Mutating routes
// are wrapped with limit, which callers use for per-IP rate limiting.
func Register(mux *http.ServeMux, svc *ruleUC.Service, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	mux.Handle("GET /providers", ProvidersHandler{Svc: svc})
	mux.Handle("GET /providers/{provider}/rules", ListHandler{Svc: svc})
	mux.Handle("GET /rules/{id}", GetHandler{Svc: svc})
	mux.Handle("POST /rules", limit(CreateHandler{Svc: svc}))
	mux.Handle("PUT /rules/{id}", limit(UpdateHandler{Svc: svc}))
	mux.Handle("DELETE /rules/{id}", limit(DeleteHandler{Svc: svc}))
}
