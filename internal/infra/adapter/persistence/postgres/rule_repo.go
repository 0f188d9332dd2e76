package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"chat-integration/internal/domain/entity"
	"chat-integration/internal/repository"
)

type RuleRepo struct{ db *sql.DB }

func NewRuleRepo(db *sql.DB) repository.RuleRepository {
	return &RuleRepo{db: db}
}

// scanRule scans a rule row including the JSON-encoded tags column.
func scanRule(rows *sql.Rows) (*entity.Rule, error) {
	var rule entity.Rule
	var tagsJSON []byte
	if err := rows.Scan(
		&rule.ID, &rule.Provider, &rule.Channel, &rule.CategoryID,
		&tagsJSON, &rule.Filter, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &rule.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}

	return &rule, nil
}

// marshalTags encodes the tag set for storage. An empty set stores NULL
// so that "no restriction" and "restricted to zero tags" cannot diverge.
func marshalTags(tags []string) ([]byte, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return json.Marshal(tags)
}

func (repo *RuleRepo) Get(ctx context.Context, id int64) (*entity.Rule, error) {
	const query = `
SELECT id, provider, channel, category_id, tags, filter, created_at, updated_at
FROM rules
WHERE id = $1
LIMIT 1`
	var rule entity.Rule
	var tagsJSON []byte
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&rule.ID, &rule.Provider, &rule.Channel, &rule.CategoryID,
		&tagsJSON, &rule.Filter, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &rule.Tags); err != nil {
			return nil, fmt.Errorf("Get: unmarshal tags: %w", err)
		}
	}

	return &rule, nil
}

func (repo *RuleRepo) AllForProvider(ctx context.Context, provider string) ([]*entity.Rule, error) {
	const query = `
SELECT id, provider, channel, category_id, tags, filter, created_at, updated_at
FROM rules
WHERE provider = $1
ORDER BY channel ASC,
         CASE filter WHEN 'watch' THEN 1 WHEN 'follow' THEN 2 WHEN 'mute' THEN 3 ELSE 0 END ASC,
         COALESCE(category_id, 0) ASC`
	rows, err := repo.db.QueryContext(ctx, query, provider)
	if err != nil {
		return nil, fmt.Errorf("AllForProvider: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rules := make([]*entity.Rule, 0, 16)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("AllForProvider: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (repo *RuleRepo) Create(ctx context.Context, rule *entity.Rule) error {
	tagsJSON, err := marshalTags(rule.Tags)
	if err != nil {
		return fmt.Errorf("Create: marshal tags: %w", err)
	}

	const query = `
INSERT INTO rules (provider, channel, category_id, tags, filter, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING id, created_at, updated_at`
	err = repo.db.QueryRowContext(ctx, query,
		rule.Provider, rule.Channel, rule.CategoryID, tagsJSON, rule.Filter,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *RuleRepo) Update(ctx context.Context, rule *entity.Rule) error {
	tagsJSON, err := marshalTags(rule.Tags)
	if err != nil {
		return fmt.Errorf("Update: marshal tags: %w", err)
	}

	const query = `
UPDATE rules SET
       channel     = $1,
       category_id = $2,
       tags        = $3,
       filter      = $4,
       updated_at  = NOW()
WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, query,
		rule.Channel, rule.CategoryID, tagsJSON, rule.Filter, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *RuleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM rules WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}
