package dispatch

import (
	"context"
	"sort"

	"chat-integration/internal/domain/entity"
)

// Provider is a chat system capable of receiving a message on a named
// channel. Concrete transports (webhook POST, bot API call) live in
// internal/infra/notifier; the dispatch manager only sees this contract.
//
// Implementations must be safe for concurrent use: one dispatch cycle
// may deliver to many channels of the same provider in parallel, and
// many cycles run at once.
type Provider interface {
	// Name returns the stable provider identifier (lowercase, e.g.
	// "slack"). Rules reference providers by this name.
	Name() string

	// IsEnabled reports whether the provider is switched on in the
	// configuration snapshot taken at process start.
	IsEnabled() bool

	// Deliver sends the message to the given provider-specific channel.
	// The transport owns the per-call timeout; a timed-out or failed
	// call surfaces as an error for this one target only.
	Deliver(ctx context.Context, channel string, msg *entity.Message) error
}

// Registry holds the closed set of known providers, registered once at
// process start from configuration. The core never mutates it.
type Registry struct {
	providers []Provider
	byName    map[string]Provider
}

// NewRegistry builds a registry from the given providers. Registration
// order is preserved for Enabled(); lookups are by name.
func NewRegistry(providers ...Provider) *Registry {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Registry{providers: providers, byName: byName}
}

// Enabled returns the providers currently switched on, in registration
// order.
func (r *Registry) Enabled() []Provider {
	enabled := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.IsEnabled() {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// EnabledNames returns the sorted names of all enabled providers.
func (r *Registry) EnabledNames() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		if p.IsEnabled() {
			names = append(names, p.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Lookup returns the enabled provider with the given name. Disabled
// providers are invisible through Lookup: rules may not be managed for
// them and they never receive deliveries.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.byName[name]
	if !ok || !p.IsEnabled() {
		return nil, false
	}
	return p, true
}

// Has reports whether an enabled provider with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}
