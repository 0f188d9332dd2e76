package notifier

import (
	"context"
	"log/slog"

	"chat-integration/internal/domain/entity"
)

// NoopProvider logs deliveries instead of sending them. Useful for
// local development and as a dispatch smoke test target.
type NoopProvider struct {
	enabled bool
	logger  *slog.Logger
}

func NewNoopProvider(enabled bool, logger *slog.Logger) *NoopProvider {
	return &NoopProvider{enabled: enabled, logger: logger}
}

func (n *NoopProvider) Name() string    { return "noop" }
func (n *NoopProvider) IsEnabled() bool { return n.enabled }

func (n *NoopProvider) Deliver(_ context.Context, channel string, msg *entity.Message) error {
	n.logger.Info("noop delivery",
		slog.String("channel", channel),
		slog.String("title", msg.Title),
		slog.String("link", msg.Link),
	)
	return nil
}
