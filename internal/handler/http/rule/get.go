package rule

import (
	"net/http"

	"chat-integration/internal/handler/http/pathutil"
	"chat-integration/internal/handler/http/respond"
	ruleUC "chat-integration/internal/usecase/rule"
)

// GetHandler returns a single rule by ID.
type GetHandler struct{ Svc *ruleUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/rules/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	rule, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(rule))
}
