package entity

// NotificationTarget is a resolved (provider, channel, filter) triple
// produced by the matching engine. Targets are transient: they exist
// only for the duration of one dispatch cycle.
type NotificationTarget struct {
	Provider string
	Channel  string
	Filter   Filter
}

// Muted reports whether the target's resolved filter suppresses delivery.
func (t NotificationTarget) Muted() bool {
	return t.Filter == FilterMute
}

// Message is the provider-neutral notification content built once per
// dispatch cycle. Transports render it into their own wire format.
type Message struct {
	Title        string
	Excerpt      string
	Link         string
	CategoryName string
	Tags         []string
}
