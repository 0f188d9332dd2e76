package rule

import (
	"errors"
	"net/http"

	"chat-integration/internal/domain/entity"
	"chat-integration/internal/handler/http/respond"
	ruleUC "chat-integration/internal/usecase/rule"
)

// writeServiceError maps rule service failures onto the management API
// contract: validation failures become 422 with per-field messages,
// missing rules and providers become 404, everything else is an
// internal error.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		respond.ValidationErrors(w, []string{verr.Error()})
		return
	}

	switch {
	case errors.Is(err, ruleUC.ErrRuleNotFound),
		errors.Is(err, ruleUC.ErrProviderNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
