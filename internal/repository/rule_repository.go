package repository

import (
	"context"

	"chat-integration/internal/domain/entity"
)

// RuleRepository is the persistence contract for notification rules.
// Dispatch cycles only read through it; writes happen on the separate
// management path and take effect for cycles that start afterwards.
type RuleRepository interface {
	Get(ctx context.Context, id int64) (*entity.Rule, error)

	// AllForProvider returns every rule bound to the named provider,
	// ordered by (channel, filter precedence, category id). An unknown
	// provider simply yields an empty slice; provider existence is the
	// management service's concern.
	AllForProvider(ctx context.Context, provider string) ([]*entity.Rule, error)

	Create(ctx context.Context, rule *entity.Rule) error
	Update(ctx context.Context, rule *entity.Rule) error
	Delete(ctx context.Context, id int64) error
}
