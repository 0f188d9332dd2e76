package entity

import "time"

// PostContext is the read-only projection of a forum post that rule
// matching and dispatch consume. It is fetched fresh for every dispatch
// cycle and never cached or written back.
type PostContext struct {
	ID      int64
	Title   string
	Excerpt string
	URL     string

	// CategoryID is nil for posts outside any category.
	CategoryID   *int64
	CategoryName string

	Tags []string

	// Private marks personal messages and other non-public posts.
	// Private posts never produce notifications.
	Private bool

	CreatedAt time.Time
}
