// Package rule provides use cases for managing notification rules:
// validated create/update/delete plus provider-scoped listing in the
// order administrators see them. It never participates in dispatch;
// rule edits become visible to dispatch cycles that start afterwards.
package rule

import "errors"

// Sentinel errors for rule management operations.
var (
	// ErrRuleNotFound indicates that the requested rule does not exist.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrProviderNotFound indicates that the named provider is unknown
	// or disabled. Rules can only be managed for enabled providers.
	ErrProviderNotFound = errors.New("provider not found")
)
