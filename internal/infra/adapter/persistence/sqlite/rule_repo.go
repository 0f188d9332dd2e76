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

type RuleRepo struct{ db *sql.DB }

func NewRuleRepo(db *sql.DB) repository.RuleRepository {
	return &RuleRepo{db: db}
}

// scanRule scans a rule row, decoding JSON tags and TEXT timestamps.
func scanRule(rows *sql.Rows) (*entity.Rule, error) {
	var rule entity.Rule
	var tagsJSON sql.NullString
	var createdAt, updatedAt string
	if err := rows.Scan(
		&rule.ID, &rule.Provider, &rule.Channel, &rule.CategoryID,
		&tagsJSON, &rule.Filter, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &rule.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	rule.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	rule.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return &rule, nil
}

// marshalTags encodes the tag set for storage. An empty set stores NULL
// so that "no restriction" and "restricted to zero tags" cannot diverge.
func marshalTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (repo *RuleRepo) Get(ctx context.Context, id int64) (*entity.Rule, error) {
	const query = `
SELECT id, provider, channel, category_id, tags, filter, created_at, updated_at
FROM rules
WHERE id = ?
LIMIT 1`
	rows, err := repo.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("Get: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rule, err := scanRule(rows)
	if err != nil {
		return nil, fmt.Errorf("Get: Scan: %w", err)
	}
	return rule, nil
}

func (repo *RuleRepo) AllForProvider(ctx context.Context, provider string) ([]*entity.Rule, error) {
	const query = `
SELECT id, provider, channel, category_id, tags, filter, created_at, updated_at
FROM rules
WHERE provider = ?
ORDER BY channel ASC,
         CASE filter WHEN 'watch' THEN 1 WHEN 'follow' THEN 2 WHEN 'mute' THEN 3 ELSE 0 END ASC,
         COALESCE(category_id, 0) ASC`
	rows, err := repo.db.QueryContext(ctx, query, provider)
	if err != nil {
		return nil, fmt.Errorf("AllForProvider: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rules := make([]*entity.Rule, 0, 16)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("AllForProvider: Scan: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AllForProvider: rows.Err: %w", err)
	}

	return rules, nil
}

func (repo *RuleRepo) Create(ctx context.Context, rule *entity.Rule) error {
	tagsJSON, err := marshalTags(rule.Tags)
	if err != nil {
		return fmt.Errorf("Create: marshal tags: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	const query = `
INSERT INTO rules (provider, channel, category_id, tags, filter, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		rule.Provider, rule.Channel, rule.CategoryID, tagsJSON, rule.Filter, now, now,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: last insert id: %w", err)
	}
	rule.ID = id
	rule.CreatedAt, _ = time.Parse(timeLayout, now)
	rule.UpdatedAt = rule.CreatedAt
	return nil
}

func (repo *RuleRepo) Update(ctx context.Context, rule *entity.Rule) error {
	tagsJSON, err := marshalTags(rule.Tags)
	if err != nil {
		return fmt.Errorf("Update: marshal tags: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	const query = `
UPDATE rules SET
       channel     = ?,
       category_id = ?,
       tags        = ?,
       filter      = ?,
       updated_at  = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		rule.Channel, rule.CategoryID, tagsJSON, rule.Filter, now, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	rule.UpdatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

func (repo *RuleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM rules WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}
