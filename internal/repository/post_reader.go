package repository

import (
	"context"

	"chat-integration/internal/domain/entity"
)

// PostReader looks up the post projection the host forum maintains.
// Returns (nil, nil) when the post no longer exists; callers translate
// that into entity.ErrNotFound.
type PostReader interface {
	Get(ctx context.Context, id int64) (*entity.PostContext, error)
}
