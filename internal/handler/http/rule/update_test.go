package rule_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chat-integration/internal/domain/entity"
	"chat-integration/internal/handler/http/rule"
)

func seedUpdateRepo() *memRepo {
	return newMemRepo(&entity.Rule{
		ID:         7,
		Provider:   "slack",
		Channel:    "#general",
		CategoryID: ptr(int64(3)),
		Tags:       []string{"news"},
		Filter:     entity.FilterWatch,
	})
}

func TestUpdateHandler_ChangeChannelAndFilter(t *testing.T) {
	repo := seedUpdateRepo()
	handler := rule.UpdateHandler{Svc: newService(repo)}

	body := `{"channel": "#announcements", "filter": "mute"}`
	req := httptest.NewRequest(http.MethodPut, "/rules/7", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	stored := repo.rules[7]
	if stored.Channel != "#announcements" {
		t.Errorf("Channel = %q, want %q", stored.Channel, "#announcements")
	}
	if stored.Filter != entity.FilterMute {
		t.Errorf("Filter = %q, want mute", stored.Filter)
	}
	// Untouched fields keep their values.
	if stored.CategoryID == nil || *stored.CategoryID != 3 {
		t.Errorf("CategoryID = %v, want 3", stored.CategoryID)
	}
	if len(stored.Tags) != 1 || stored.Tags[0] != "news" {
		t.Errorf("Tags = %v, want [news]", stored.Tags)
	}
}

func TestUpdateHandler_ClearCategory(t *testing.T) {
	repo := seedUpdateRepo()
	handler := rule.UpdateHandler{Svc: newService(repo)}

	req := httptest.NewRequest(http.MethodPut, "/rules/7", strings.NewReader(`{"category_id": null}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if repo.rules[7].CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", repo.rules[7].CategoryID)
	}
}

func TestUpdateHandler_AbsentCategoryUntouched(t *testing.T) {
	repo := seedUpdateRepo()
	handler := rule.UpdateHandler{Svc: newService(repo)}

	req := httptest.NewRequest(http.MethodPut, "/rules/7", strings.NewReader(`{"channel": "#ops"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	if repo.rules[7].CategoryID == nil || *repo.rules[7].CategoryID != 3 {
		t.Errorf("CategoryID = %v, want 3", repo.rules[7].CategoryID)
	}
}

func TestUpdateHandler_ReplaceTags(t *testing.T) {
	repo := seedUpdateRepo()
	handler := rule.UpdateHandler{Svc: newService(repo)}

	req := httptest.NewRequest(http.MethodPut, "/rules/7", strings.NewReader(`{"tags": []}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	if len(repo.rules[7].Tags) != 0 {
		t.Errorf("Tags = %v, want empty", repo.rules[7].Tags)
	}
}

func TestUpdateHandler_NotFound(t *testing.T) {
	handler := rule.UpdateHandler{Svc: newService(newMemRepo())}

	req := httptest.NewRequest(http.MethodPut, "/rules/42", strings.NewReader(`{"channel": "#ops"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestUpdateHandler_InvalidFilter(t *testing.T) {
	handler := rule.UpdateHandler{Svc: newService(seedUpdateRepo())}

	req := httptest.NewRequest(http.MethodPut, "/rules/7", strings.NewReader(`{"filter": "yell"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0], "filter") {
		t.Errorf("errors = %v, want a filter message", resp.Errors)
	}
}
