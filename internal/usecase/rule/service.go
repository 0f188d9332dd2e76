package rule

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"chat-integration/internal/domain/entity"
	"chat-integration/internal/repository"
)

// ProviderDirectory is the slice of the provider registry the management
// surface needs: which providers exist and are enabled.
type ProviderDirectory interface {
	Has(name string) bool
	EnabledNames() []string
}

// CreateInput represents the input parameters for creating a new rule.
type CreateInput struct {
	Provider   string
	Channel    string
	CategoryID *int64
	Tags       []string
	Filter     string
}

// UpdateInput represents the input parameters for updating an existing
// rule. Empty Channel/Filter and nil Tags are left unchanged. The
// category is only touched when SetCategory is true, so that it can be
// cleared (set to "all categories") as well as changed.
type UpdateInput struct {
	ID          int64
	Channel     string
	Filter      string
	Tags        *[]string
	CategoryID  *int64
	SetCategory bool
}

// Service provides rule management use cases. It validates input against
// the provider directory and delegates persistence to the repository.
type Service struct {
	Repo      repository.RuleRepository
	Providers ProviderDirectory
}

// EnabledProviders returns the names of all enabled providers.
func (s *Service) EnabledProviders() []string {
	return s.Providers.EnabledNames()
}

// ListForProvider returns the rules bound to the named provider, sorted
// by (channel, filter precedence, category id). Requesting an unknown or
// disabled provider fails with ErrProviderNotFound.
func (s *Service) ListForProvider(ctx context.Context, provider string) ([]*entity.Rule, error) {
	if !s.Providers.Has(provider) {
		return nil, fmt.Errorf("provider %q: %w", provider, ErrProviderNotFound)
	}

	rules, err := s.Repo.AllForProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	sortRules(rules)
	return rules, nil
}

// Get returns a single rule by id, or ErrRuleNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Rule, error) {
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get rule: %w", err)
	}
	if r == nil {
		return nil, ErrRuleNotFound
	}
	return r, nil
}

// Create validates the input and persists a new rule. Returns a
// ValidationError when any field fails the provider/channel/filter/
// category constraints.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Rule, error) {
	filter, err := entity.ParseFilter(in.Filter)
	if err != nil {
		return nil, err
	}

	r := &entity.Rule{
		Provider:   strings.TrimSpace(in.Provider),
		Channel:    strings.TrimSpace(in.Channel),
		CategoryID: in.CategoryID,
		Tags:       normalizeTags(in.Tags),
		Filter:     filter,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if !s.Providers.Has(r.Provider) {
		return nil, &entity.ValidationError{Field: "provider", Message: "is not an enabled provider"}
	}

	if err := s.Repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}
	return r, nil
}

// Update applies the given fields to an existing rule and persists it.
// Returns ErrRuleNotFound for unknown ids and ValidationError for
// invalid field values. The provider of a rule cannot be changed; delete
// and recreate instead.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Rule, error) {
	if in.ID <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	r, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get rule: %w", err)
	}
	if r == nil {
		return nil, ErrRuleNotFound
	}

	if in.Channel != "" {
		r.Channel = strings.TrimSpace(in.Channel)
	}
	if in.Filter != "" {
		filter, err := entity.ParseFilter(in.Filter)
		if err != nil {
			return nil, err
		}
		r.Filter = filter
	}
	if in.Tags != nil {
		r.Tags = normalizeTags(*in.Tags)
	}
	if in.SetCategory {
		r.CategoryID = in.CategoryID
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update rule: %w", err)
	}
	return r, nil
}

// Delete removes a rule by id. Returns ErrRuleNotFound for unknown ids.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get rule: %w", err)
	}
	if r == nil {
		return ErrRuleNotFound
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return nil
}

// sortRules orders rules the way the admin UI lists them: by channel,
// then filter precedence (watch before follow before mute), then
// category id with category-unscoped rules first.
func sortRules(rules []*entity.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		if a.Filter != b.Filter {
			return a.Filter.Precedence() < b.Filter.Precedence()
		}
		return categoryKey(a) < categoryKey(b)
	})
}

func categoryKey(r *entity.Rule) int64 {
	if r.CategoryID == nil {
		return 0
	}
	return *r.CategoryID
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
