package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"chat-integration/internal/domain/entity"
	"chat-integration/internal/repository"
)

// PostReader reads the posts projection table the host forum keeps in
// sync. It is strictly read-only; the projection is owned by the forum.
type PostReader struct{ db *sql.DB }

func NewPostReader(db *sql.DB) repository.PostReader {
	return &PostReader{db: db}
}

func (r *PostReader) Get(ctx context.Context, id int64) (*entity.PostContext, error) {
	const query = `
SELECT id, title, excerpt, url, category_id, category_name, tags, private, created_at
FROM posts
WHERE id = $1
LIMIT 1`
	var post entity.PostContext
	var categoryName sql.NullString
	var tagsJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Excerpt, &post.URL,
		&post.CategoryID, &categoryName, &tagsJSON, &post.Private, &post.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	post.CategoryName = categoryName.String
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
			return nil, fmt.Errorf("Get: unmarshal tags: %w", err)
		}
	}

	return &post, nil
}
