package rule

import (
	"net/http"

	"chat-integration/internal/handler/http/pathutil"
	"chat-integration/internal/handler/http/respond"
	ruleUC "chat-integration/internal/usecase/rule"
)

// DeleteHandler removes a rule by id.
type DeleteHandler struct{ Svc *ruleUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/rules/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
