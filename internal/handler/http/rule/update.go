package rule

import (
	"encoding/json"
	"net/http"

	"chat-integration/internal/handler/http/pathutil"
	"chat-integration/internal/handler/http/respond"
	ruleUC "chat-integration/internal/usecase/rule"
)

// UpdateHandler applies a partial update to an existing rule. Absent
// fields are left unchanged; "category_id": null clears the category
// scope, which is why the body is decoded field by field.
type UpdateHandler struct{ Svc *ruleUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/rules/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	in := ruleUC.UpdateInput{ID: id}
	if v, ok := raw["channel"]; ok {
		if err := json.Unmarshal(v, &in.Channel); err != nil {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if v, ok := raw["filter"]; ok {
		if err := json.Unmarshal(v, &in.Filter); err != nil {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if v, ok := raw["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(v, &tags); err != nil {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		in.Tags = &tags
	}
	if v, ok := raw["category_id"]; ok {
		in.SetCategory = true
		if string(v) != "null" {
			var categoryID int64
			if err := json.Unmarshal(v, &categoryID); err != nil {
				respond.SafeError(w, http.StatusBadRequest, err)
				return
			}
			in.CategoryID = &categoryID
		}
	}

	updated, err := h.Svc.Update(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(updated))
}
