package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"chat-integration/internal/domain/entity"
	"chat-integration/internal/observability/tracing"
	"chat-integration/internal/repository"
	"chat-integration/internal/resilience/circuitbreaker"
	"chat-integration/internal/usecase/match"
)

// defaultMaxConcurrent bounds parallel deliveries within one cycle.
const defaultMaxConcurrent = 10

// Manager runs notification dispatch cycles. One TriggerNotifications
// call handles exactly one post; arbitrarily many cycles may run
// concurrently for different posts.
type Manager struct {
	registry *Registry
	rules    repository.RuleRepository
	posts    repository.PostReader

	maxConcurrent int

	breakersMu sync.Mutex
	breakers   map[string]*circuitbreaker.CircuitBreaker
}

// NewManager creates a dispatch manager. maxConcurrent bounds the number
// of parallel deliveries within a single cycle; values <= 0 fall back to
// the default.
func NewManager(registry *Registry, rules repository.RuleRepository, posts repository.PostReader, maxConcurrent int) *Manager {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Manager{
		registry:      registry,
		rules:         rules,
		posts:         posts,
		maxConcurrent: maxConcurrent,
		breakers:      make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// delivery is one unit of work within a cycle: a single (provider,
// channel) pair that should receive the message.
type delivery struct {
	provider Provider
	channel  string
}

// TriggerNotifications runs one dispatch cycle for the given post.
//
// The cycle is best effort: per-target delivery failures and per-provider
// rule lookup failures are collected and returned as an aggregate for
// reporting, but they never stop the remaining targets from being
// attempted. Only a missing post aborts the cycle, with ErrPostNotFound.
// A private post is a silent no-op.
func (m *Manager) TriggerNotifications(ctx context.Context, postID int64) error {
	ctx, span := tracing.GetTracer().Start(ctx, "dispatch.TriggerNotifications")
	defer span.End()

	requestID := uuid.New().String()
	log := slog.With(
		slog.String("request_id", requestID),
		slog.Int64("post_id", postID))

	post, err := m.posts.Get(ctx, postID)
	if err != nil {
		recordCycle("post_not_found")
		return fmt.Errorf("fetch post %d: %w", postID, err)
	}
	if post == nil {
		recordCycle("post_not_found")
		return fmt.Errorf("post %d: %w", postID, ErrPostNotFound)
	}

	// Rules for private posts may still say mute; that distinction only
	// matters for public posts. Private posts never reach the matching
	// engine at all.
	if post.Private {
		log.Debug("skipping private post")
		recordCycle("skipped_private")
		return nil
	}

	msg := buildMessage(post)

	enabled := m.registry.Enabled()
	setProvidersEnabled(len(enabled))
	if len(enabled) == 0 {
		log.Debug("no chat providers enabled")
		recordCycle("completed")
		return nil
	}

	var (
		errMu     sync.Mutex
		collected error
	)
	collect := func(err error) {
		errMu.Lock()
		collected = multierr.Append(collected, err)
		errMu.Unlock()
	}

	var deliveries []delivery
	for _, provider := range enabled {
		rules, err := m.rules.AllForProvider(ctx, provider.Name())
		if err != nil {
			// One provider's rule lookup failing must not block the
			// others, same as a delivery failure.
			log.Error("failed to load rules for provider",
				slog.String("provider", provider.Name()),
				slog.Any("error", err))
			recordCycle("rules_error")
			collect(fmt.Errorf("load rules for %s: %w", provider.Name(), err))
			continue
		}

		for _, target := range match.Resolve(provider.Name(), post, rules) {
			recordTargetResolved(target.Provider, target.Filter.String())
			if target.Muted() {
				log.Debug("channel muted",
					slog.String("provider", target.Provider),
					slog.String("channel", target.Channel))
				recordDropped(target.Provider, "muted")
				continue
			}
			deliveries = append(deliveries, delivery{provider: provider, channel: target.Channel})
		}
	}

	if len(deliveries) > 0 {
		log.Info("dispatching notifications",
			slog.Int("targets", len(deliveries)),
			slog.Int("providers", len(enabled)))
	}

	// Fan out over a bounded pool. The group is used purely as a
	// bounded wait: tasks always return nil so that one failed target
	// never cancels its siblings, and errors travel through collect.
	g := new(errgroup.Group)
	g.SetLimit(m.maxConcurrent)
	for _, d := range deliveries {
		g.Go(func() error {
			if err := m.deliverOne(ctx, log, d, msg); err != nil {
				collect(err)
			}
			return nil
		})
	}
	_ = g.Wait()

	recordCycle("completed")
	return collected
}

// deliverOne sends the message to a single target through the provider's
// circuit breaker. Failures are returned as *DeliveryError.
func (m *Manager) deliverOne(ctx context.Context, log *slog.Logger, d delivery, msg *entity.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic during delivery",
				slog.String("provider", d.provider.Name()),
				slog.String("channel", d.channel),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = &DeliveryError{
				Provider: d.provider.Name(),
				Channel:  d.channel,
				Err:      fmt.Errorf("panic: %v", r),
			}
		}
	}()

	breaker := m.breakerFor(d.provider.Name())

	start := time.Now()
	err = breaker.Execute(func() error {
		return d.provider.Deliver(ctx, d.channel, msg)
	})
	duration := time.Since(start)

	if errors.Is(err, circuitbreaker.ErrOpen) {
		log.Warn("delivery skipped: circuit open",
			slog.String("provider", d.provider.Name()),
			slog.String("channel", d.channel))
		recordDropped(d.provider.Name(), "circuit_open")
		return &DeliveryError{Provider: d.provider.Name(), Channel: d.channel, Err: err}
	}
	if err != nil {
		log.Warn("delivery failed",
			slog.String("provider", d.provider.Name()),
			slog.String("channel", d.channel),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		recordDeliveryFailure(d.provider.Name(), duration)
		return &DeliveryError{Provider: d.provider.Name(), Channel: d.channel, Err: err}
	}

	log.Info("delivery sent",
		slog.String("provider", d.provider.Name()),
		slog.String("channel", d.channel),
		slog.Duration("duration", duration))
	recordDeliverySuccess(d.provider.Name(), duration)
	return nil
}

// breakerFor returns the circuit breaker for a provider, creating it on
// first use. Breakers are per provider, not per channel: a provider that
// is down is down for all of its channels.
func (m *Manager) breakerFor(provider string) *circuitbreaker.CircuitBreaker {
	m.breakersMu.Lock()
	defer m.breakersMu.Unlock()

	cb, ok := m.breakers[provider]
	if !ok {
		cb = circuitbreaker.New(circuitbreaker.DeliveryConfig(provider))
		m.breakers[provider] = cb
	}
	return cb
}

// buildMessage projects the post context into the provider-neutral
// message rendered by each transport.
func buildMessage(post *entity.PostContext) *entity.Message {
	return &entity.Message{
		Title:        post.Title,
		Excerpt:      post.Excerpt,
		Link:         post.URL,
		CategoryName: post.CategoryName,
		Tags:         post.Tags,
	}
}
