package rule_test

import (
	"context"
	"time"

	"chat-integration/internal/domain/entity"
	ruleUC "chat-integration/internal/usecase/rule"
)

type staticDirectory struct{ names []string }

func (d staticDirectory) Has(name string) bool {
	for _, n := range d.names {
		if n == name {
			return true
		}
	}
	return false
}

func (d staticDirectory) EnabledNames() []string { return d.names }

// memRepo is an in-memory RuleRepository for handler tests.
type memRepo struct {
	rules  map[int64]*entity.Rule
	nextID int64
	err    error
}

func newMemRepo(rules ...*entity.Rule) *memRepo {
	r := &memRepo{rules: make(map[int64]*entity.Rule)}
	for _, rule := range rules {
		if rule.ID > r.nextID {
			r.nextID = rule.ID
		}
		r.rules[rule.ID] = rule
	}
	return r
}

func (r *memRepo) Get(_ context.Context, id int64) (*entity.Rule, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.rules[id], nil
}

func (r *memRepo) AllForProvider(_ context.Context, provider string) ([]*entity.Rule, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Rule
	for _, rule := range r.rules {
		if rule.Provider == provider {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, rule *entity.Rule) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	rule.ID = r.nextID
	rule.CreatedAt = time.Now().UTC()
	rule.UpdatedAt = rule.CreatedAt
	r.rules[rule.ID] = rule
	return nil
}

func (r *memRepo) Update(_ context.Context, rule *entity.Rule) error {
	if r.err != nil {
		return r.err
	}
	r.rules[rule.ID] = rule
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	delete(r.rules, id)
	return nil
}

func newService(repo *memRepo) *ruleUC.Service {
	return &ruleUC.Service{
		Repo:      repo,
		Providers: staticDirectory{names: []string{"slack", "discord"}},
	}
}

func ptr[T any](v T) *T { return &v }
