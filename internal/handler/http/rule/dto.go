package rule

import (
	"time"

	"chat-integration/internal/domain/entity"
)

type ruleResponse struct {
	ID         int64     `json:"id"`
	Provider   string    `json:"provider"`
	Channel    string    `json:"channel"`
	CategoryID *int64    `json:"category_id,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Filter     string    `json:"filter"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toResponse(r *entity.Rule) ruleResponse {
	return ruleResponse{
		ID:         r.ID,
		Provider:   r.Provider,
		Channel:    r.Channel,
		CategoryID: r.CategoryID,
		Tags:       r.Tags,
		Filter:     string(r.Filter),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toResponses(rules []*entity.Rule) []ruleResponse {
	out := make([]ruleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, toResponse(r))
	}
	return out
}
