// Package match implements the rule matching engine. Given a post and
// the rules configured for one provider, it computes which channels the
// post should notify and at which filter level, resolving conflicting
// rules per channel by filter precedence.
package match

import (
	"sort"

	"chat-integration/internal/domain/entity"
)

// Resolve returns one notification target per channel that has at least
// one rule applicable to the post. When several applicable rules target
// the same channel, the effective filter is the highest-precedence one
// (mute > follow > watch); all applicable rules contribute equally to
// that reduction, there is no single "winning" rule.
//
// The rules slice must already be scoped to the given provider. The
// result is sorted by channel so that resolution is deterministic for a
// given (provider, post, rules) input. No matches yield an empty slice,
// never an error.
func Resolve(provider string, post *entity.PostContext, rules []*entity.Rule) []entity.NotificationTarget {
	resolved := make(map[string]entity.Filter)

	for _, rule := range rules {
		if !rule.AppliesTo(post) {
			continue
		}
		current, ok := resolved[rule.Channel]
		if !ok || rule.Filter.Outranks(current) {
			resolved[rule.Channel] = rule.Filter
		}
	}

	targets := make([]entity.NotificationTarget, 0, len(resolved))
	for channel, filter := range resolved {
		targets = append(targets, entity.NotificationTarget{
			Provider: provider,
			Channel:  channel,
			Filter:   filter,
		})
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Channel < targets[j].Channel
	})

	return targets
}
