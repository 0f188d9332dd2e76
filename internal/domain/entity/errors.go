package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the rule or post a caller asked for does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput marks requests that cannot be mapped onto a rule at
// all, such as a non-numeric id in a path.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports which rule field was rejected and why. Message
// is phrased so that "<field> <message>" reads as a sentence for the
// admin UI ("channel is required").
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
