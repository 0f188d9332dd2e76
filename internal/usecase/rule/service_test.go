package rule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-integration/internal/domain/entity"
)

func int64Ptr(v int64) *int64 { return &v }

// memRepo is an in-memory RuleRepository for service tests.
type memRepo struct {
	nextID int64
	rules  map[int64]*entity.Rule
	err    error
}

func newMemRepo(rules ...*entity.Rule) *memRepo {
	r := &memRepo{rules: make(map[int64]*entity.Rule)}
	for _, rule := range rules {
		r.nextID++
		rule.ID = r.nextID
		r.rules[rule.ID] = rule
	}
	return r
}

func (m *memRepo) Get(ctx context.Context, id int64) (*entity.Rule, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rules[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) AllForProvider(ctx context.Context, provider string) ([]*entity.Rule, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*entity.Rule
	for _, r := range m.rules {
		if r.Provider == provider {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) Create(ctx context.Context, rule *entity.Rule) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	rule.ID = m.nextID
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *memRepo) Update(ctx context.Context, rule *entity.Rule) error {
	if m.err != nil {
		return m.err
	}
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.rules, id)
	return nil
}

// staticDirectory is a fixed set of enabled provider names.
type staticDirectory []string

func (d staticDirectory) Has(name string) bool {
	for _, n := range d {
		if n == name {
			return true
		}
	}
	return false
}

func (d staticDirectory) EnabledNames() []string { return d }

func newService(repo *memRepo) *Service {
	return &Service{Repo: repo, Providers: staticDirectory{"slack", "telegram"}}
}

func TestListForProvider_SortsByChannelPrecedenceCategory(t *testing.T) {
	repo := newMemRepo(
		&entity.Rule{Provider: "slack", Channel: "#b", Filter: entity.FilterWatch},
		&entity.Rule{Provider: "slack", Channel: "#a", CategoryID: int64Ptr(9), Filter: entity.FilterMute},
		&entity.Rule{Provider: "slack", Channel: "#a", Filter: entity.FilterWatch, CategoryID: int64Ptr(3)},
		&entity.Rule{Provider: "slack", Channel: "#a", Filter: entity.FilterWatch},
		&entity.Rule{Provider: "slack", Channel: "#a", Filter: entity.FilterFollow},
		&entity.Rule{Provider: "telegram", Channel: "@other", Filter: entity.FilterWatch},
	)
	svc := newService(repo)

	rules, err := svc.ListForProvider(context.Background(), "slack")
	require.NoError(t, err)
	require.Len(t, rules, 5)

	type key struct {
		channel string
		filter  entity.Filter
		cat     int64
	}
	var got []key
	for _, r := range rules {
		got = append(got, key{r.Channel, r.Filter, categoryKey(r)})
	}
	want := []key{
		{"#a", entity.FilterWatch, 0},
		{"#a", entity.FilterWatch, 3},
		{"#a", entity.FilterFollow, 0},
		{"#a", entity.FilterMute, 9},
		{"#b", entity.FilterWatch, 0},
	}
	assert.Equal(t, want, got)
}

func TestListForProvider_UnknownProvider(t *testing.T) {
	svc := newService(newMemRepo())

	_, err := svc.ListForProvider(context.Background(), "matrix")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestCreate(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	r, err := svc.Create(context.Background(), CreateInput{
		Provider:   "slack",
		Channel:    " #general ",
		CategoryID: int64Ptr(5),
		Tags:       []string{"news", " ", "api"},
		Filter:     "watch",
	})
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, "#general", r.Channel, "channel is trimmed")
	assert.Equal(t, []string{"news", "api"}, r.Tags, "blank tags are dropped")
	assert.Equal(t, entity.FilterWatch, r.Filter)
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := newService(newMemRepo())

	tests := []struct {
		name      string
		in        CreateInput
		wantField string
	}{
		{
			name:      "invalid filter",
			in:        CreateInput{Provider: "slack", Channel: "#x", Filter: "shout"},
			wantField: "filter",
		},
		{
			name:      "empty channel",
			in:        CreateInput{Provider: "slack", Channel: "  ", Filter: "watch"},
			wantField: "channel",
		},
		{
			name:      "unknown provider",
			in:        CreateInput{Provider: "matrix", Channel: "#x", Filter: "watch"},
			wantField: "provider",
		},
		{
			name:      "disabled provider rejected at write time",
			in:        CreateInput{Provider: "discord", Channel: "#x", Filter: "watch"},
			wantField: "provider",
		},
		{
			name:      "non-positive category",
			in:        CreateInput{Provider: "slack", Channel: "#x", Filter: "watch", CategoryID: int64Ptr(-1)},
			wantField: "category_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			var verr *entity.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestUpdate(t *testing.T) {
	repo := newMemRepo(&entity.Rule{
		Provider:   "slack",
		Channel:    "#general",
		CategoryID: int64Ptr(5),
		Filter:     entity.FilterWatch,
	})
	svc := newService(repo)

	r, err := svc.Update(context.Background(), UpdateInput{
		ID:     1,
		Filter: "mute",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FilterMute, r.Filter)
	assert.Equal(t, "#general", r.Channel, "unset fields unchanged")
	require.NotNil(t, r.CategoryID)
	assert.EqualValues(t, 5, *r.CategoryID)

	// Clearing the category requires SetCategory.
	r, err = svc.Update(context.Background(), UpdateInput{
		ID:          1,
		SetCategory: true,
		CategoryID:  nil,
	})
	require.NoError(t, err)
	assert.Nil(t, r.CategoryID)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newService(newMemRepo())

	_, err := svc.Update(context.Background(), UpdateInput{ID: 7, Filter: "mute"})
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestUpdate_InvalidFilter(t *testing.T) {
	repo := newMemRepo(&entity.Rule{Provider: "slack", Channel: "#g", Filter: entity.FilterWatch})
	svc := newService(repo)

	_, err := svc.Update(context.Background(), UpdateInput{ID: 1, Filter: "scream"})
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "filter", verr.Field)
}

func TestDelete(t *testing.T) {
	repo := newMemRepo(&entity.Rule{Provider: "slack", Channel: "#g", Filter: entity.FilterWatch})
	svc := newService(repo)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, repo.rules)

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestGet(t *testing.T) {
	repo := newMemRepo(&entity.Rule{Provider: "slack", Channel: "#g", Filter: entity.FilterWatch})
	svc := newService(repo)

	r, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "#g", r.Channel)

	_, err = svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRepositoryErrorsAreWrapped(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection reset")
	svc := newService(repo)

	_, err := svc.ListForProvider(context.Background(), "slack")
	assert.ErrorIs(t, err, repo.err)
}
