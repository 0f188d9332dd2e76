package rule

import (
	"encoding/json"
	"net/http"

	"chat-integration/internal/handler/http/respond"
	ruleUC "chat-integration/internal/usecase/rule"
)

// CreateHandler creates a new notification rule.
type CreateHandler struct{ Svc *ruleUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider   string   `json:"provider"`
		Channel    string   `json:"channel"`
		CategoryID *int64   `json:"category_id"`
		Tags       []string `json:"tags"`
		Filter     string   `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.Svc.Create(r.Context(), ruleUC.CreateInput{
		Provider:   req.Provider,
		Channel:    req.Channel,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
		Filter:     req.Filter,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toResponse(created))
}
