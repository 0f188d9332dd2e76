package rule_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chat-integration/internal/domain/entity"
	"chat-integration/internal/handler/http/rule"
)

func TestDeleteHandler_Success(t *testing.T) {
	repo := newMemRepo(&entity.Rule{
		ID: 3, Provider: "slack", Channel: "#general", Filter: entity.FilterWatch,
	})
	handler := rule.DeleteHandler{Svc: newService(repo)}

	req := httptest.NewRequest(http.MethodDelete, "/rules/3", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if _, ok := repo.rules[3]; ok {
		t.Error("rule was not deleted")
	}
}

func TestDeleteHandler_NotFound(t *testing.T) {
	handler := rule.DeleteHandler{Svc: newService(newMemRepo())}

	req := httptest.NewRequest(http.MethodDelete, "/rules/3", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDeleteHandler_InvalidID(t *testing.T) {
	handler := rule.DeleteHandler{Svc: newService(newMemRepo())}

	req := httptest.NewRequest(http.MethodDelete, "/rules/oops", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
