package entity

import "fmt"

// Filter is the notification intensity attached to a rule.
// The zero value is not a valid filter.
type Filter string

const (
	// FilterWatch notifies the channel about matching posts.
	FilterWatch Filter = "watch"

	// FilterFollow notifies the channel with lower emphasis.
	// For dispatch purposes it behaves like watch; it only differs
	// in precedence when rules conflict.
	FilterFollow Filter = "follow"

	// FilterMute suppresses notifications for the channel.
	// Mute always wins when rules for the same channel conflict.
	FilterMute Filter = "mute"
)

// ParseFilter converts a raw string into a Filter.
// Returns a ValidationError for anything outside the three known values.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterWatch, FilterFollow, FilterMute:
		return Filter(s), nil
	}
	return "", &ValidationError{
		Field:   "filter",
		Message: fmt.Sprintf("must be one of watch, follow, mute; got %q", s),
	}
}

// Valid reports whether the filter is one of the three known values.
func (f Filter) Valid() bool {
	switch f {
	case FilterWatch, FilterFollow, FilterMute:
		return true
	}
	return false
}

// Precedence returns the total order used to resolve conflicting rules
// on the same channel: mute > follow > watch. Higher wins.
func (f Filter) Precedence() int {
	switch f {
	case FilterWatch:
		return 1
	case FilterFollow:
		return 2
	case FilterMute:
		return 3
	}
	return 0
}

// Outranks reports whether f takes precedence over other.
func (f Filter) Outranks(other Filter) bool {
	return f.Precedence() > other.Precedence()
}

func (f Filter) String() string { return string(f) }
