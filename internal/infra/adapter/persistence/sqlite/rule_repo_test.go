package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"chat-integration/internal/domain/entity"
)

var ignoreRuleTimestamps = cmpopts.IgnoreFields(entity.Rule{}, "CreatedAt", "UpdatedAt")

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRuleRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewRuleRepo(newTestDB(t))

	categoryID := int64(7)
	rule := &entity.Rule{
		Provider:   "slack",
		Channel:    "#general",
		CategoryID: &categoryID,
		Tags:       []string{"api", "news"},
		Filter:     entity.FilterWatch,
	}

	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if rule.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if rule.CreatedAt.IsZero() {
		t.Error("expected populated CreatedAt")
	}

	got, err := repo.Get(ctx, rule.ID)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(rule, got, ignoreRuleTimestamps); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}

	rule.Channel = "#releases"
	rule.Filter = entity.FilterMute
	rule.Tags = nil
	rule.CategoryID = nil
	if err := repo.Update(ctx, rule); err != nil {
		t.Fatalf("Update err=%v", err)
	}

	got, err = repo.Get(ctx, rule.ID)
	if err != nil {
		t.Fatalf("Get after update err=%v", err)
	}
	if got.Channel != "#releases" || got.Filter != entity.FilterMute {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Tags != nil {
		t.Errorf("expected cleared tags, got %v", got.Tags)
	}
	if got.CategoryID != nil {
		t.Errorf("expected cleared category, got %v", *got.CategoryID)
	}

	if err := repo.Delete(ctx, rule.ID); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	got, err = repo.Get(ctx, rule.ID)
	if err != nil {
		t.Fatalf("Get after delete err=%v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestRuleRepo_Get_NotFound(t *testing.T) {
	repo := NewRuleRepo(newTestDB(t))

	got, err := repo.Get(context.Background(), 99)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing rule, got %+v", got)
	}
}

func TestRuleRepo_AllForProvider_Ordering(t *testing.T) {
	ctx := context.Background()
	repo := NewRuleRepo(newTestDB(t))

	categoryID := int64(3)
	seed := []*entity.Rule{
		{Provider: "slack", Channel: "#ops", Filter: entity.FilterMute},
		{Provider: "slack", Channel: "#general", Filter: entity.FilterFollow},
		{Provider: "slack", Channel: "#general", Filter: entity.FilterWatch, CategoryID: &categoryID},
		{Provider: "slack", Channel: "#general", Filter: entity.FilterWatch},
		{Provider: "telegram", Channel: "@announcements", Filter: entity.FilterWatch},
	}
	for _, r := range seed {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create err=%v", err)
		}
	}

	got, err := repo.AllForProvider(ctx, "slack")
	if err != nil {
		t.Fatalf("AllForProvider err=%v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 slack rules, got %d", len(got))
	}

	type key struct {
		channel string
		filter  entity.Filter
	}
	wantOrder := []key{
		{"#general", entity.FilterWatch},
		{"#general", entity.FilterWatch},
		{"#general", entity.FilterFollow},
		{"#ops", entity.FilterMute},
	}
	for i, r := range got {
		if r.Channel != wantOrder[i].channel || r.Filter != wantOrder[i].filter {
			t.Errorf("position %d: got (%s, %s), want (%s, %s)",
				i, r.Channel, r.Filter, wantOrder[i].channel, wantOrder[i].filter)
		}
	}

	// Within equal channel and filter the uncategorized rule sorts first.
	if got[0].CategoryID != nil {
		t.Errorf("expected uncategorized rule first, got category %v", *got[0].CategoryID)
	}

	got, err = repo.AllForProvider(ctx, "unknown")
	if err != nil {
		t.Fatalf("AllForProvider err=%v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty slice for unknown provider, got %d rules", len(got))
	}
}

func TestRuleRepo_Update_NotFound(t *testing.T) {
	repo := NewRuleRepo(newTestDB(t))

	err := repo.Update(context.Background(), &entity.Rule{
		ID: 99, Channel: "#x", Filter: entity.FilterWatch,
	})
	if err == nil {
		t.Fatal("expected error for missing rule")
	}
}

func TestRuleRepo_Delete_NotFound(t *testing.T) {
	repo := NewRuleRepo(newTestDB(t))

	if err := repo.Delete(context.Background(), 99); err == nil {
		t.Fatal("expected error for missing rule")
	}
}
