// Package dispatch orchestrates one notification cycle per forum post:
// it loads the post context, resolves notification targets per enabled
// provider through the matching engine, and delivers a message to every
// non-muted target, isolating per-target failures from one another.
package dispatch

import (
	"errors"
	"fmt"
)

// ErrPostNotFound indicates the post vanished between scheduling and
// dispatch. The cycle aborts cleanly and is not retried.
var ErrPostNotFound = errors.New("post not found")

// DeliveryError records a failed delivery to a single target. Delivery
// errors are aggregated for reporting but never abort the rest of the
// dispatch cycle.
type DeliveryError struct {
	Provider string
	Channel  string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s/%s: %v", e.Provider, e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
