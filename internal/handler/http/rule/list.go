// Package rule exposes the notification rule management API over HTTP.
package rule

import (
	"net/http"

	"chat-integration/internal/handler/http/respond"
	ruleUC "chat-integration/internal/usecase/rule"
)

// ProvidersHandler lists the enabled providers.
type ProvidersHandler struct{ Svc *ruleUC.Service }

func (h ProvidersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]string{
		"providers": h.Svc.EnabledProviders(),
	})
}

// ListHandler lists the rules of one provider in management order.
type ListHandler struct{ Svc *ruleUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Svc.ListForProvider(r.Context(), r.PathValue("provider"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]ruleResponse{
		"rules": toResponses(rules),
	})
}
