package entity

import (
	"strings"
	"time"
)

// maxChannelLength bounds provider channel identifiers. No chat provider
// in the registry accepts anything close to this.
const maxChannelLength = 256

// Rule binds a (provider, channel) pair to the posts that should notify
// it, scoped by an optional category and an optional tag set, at a given
// filter level.
//
// Multiple rules may target the same provider and channel; conflicts are
// resolved per channel by filter precedence during matching.
type Rule struct {
	ID       int64
	Provider string
	Channel  string

	// CategoryID scopes the rule to a single category.
	// nil means the rule applies to every category.
	CategoryID *int64

	// Tags restricts the rule to posts sharing at least one tag.
	// An empty set means no tag restriction.
	Tags []string

	Filter Filter

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the field constraints that hold for every rule
// regardless of which providers are registered. Provider existence is
// checked by the management service against the provider registry.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.Provider) == "" {
		return &ValidationError{Field: "provider", Message: "is required"}
	}
	if strings.TrimSpace(r.Channel) == "" {
		return &ValidationError{Field: "channel", Message: "is required"}
	}
	if len(r.Channel) > maxChannelLength {
		return &ValidationError{Field: "channel", Message: "is too long"}
	}
	if !r.Filter.Valid() {
		return &ValidationError{Field: "filter", Message: "must be one of watch, follow, mute"}
	}
	if r.CategoryID != nil && *r.CategoryID <= 0 {
		return &ValidationError{Field: "category_id", Message: "must be positive"}
	}
	for _, tag := range r.Tags {
		if strings.TrimSpace(tag) == "" {
			return &ValidationError{Field: "tags", Message: "must not contain blank tags"}
		}
	}
	return nil
}

// AppliesTo reports whether the rule is applicable to the given post:
// the category matches (or the rule is category-unscoped) and the tag
// sets intersect (or the rule is tag-unscoped).
func (r *Rule) AppliesTo(post *PostContext) bool {
	if r.CategoryID != nil {
		if post.CategoryID == nil || *r.CategoryID != *post.CategoryID {
			return false
		}
	}
	if len(r.Tags) == 0 {
		return true
	}
	for _, tag := range r.Tags {
		for _, postTag := range post.Tags {
			if tag == postTag {
				return true
			}
		}
	}
	return false
}
