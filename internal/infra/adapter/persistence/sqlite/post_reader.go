package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

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
WHERE id = ?
LIMIT 1`
	var post entity.PostContext
	var categoryName sql.NullString
	var tagsJSON sql.NullString
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Excerpt, &post.URL,
		&post.CategoryID, &categoryName, &tagsJSON, &post.Private, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	post.CategoryName = categoryName.String
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &post.Tags); err != nil {
			return nil, fmt.Errorf("Get: unmarshal tags: %w", err)
		}
	}
	post.CreatedAt, _ = time.Parse(timeLayout, createdAt)

	return &post, nil
}
