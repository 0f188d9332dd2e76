package notifier

import (
	"context"
	"fmt"
	"time"

	"chat-integration/internal/domain/entity"
)

// MattermostConfig contains configuration for the Mattermost provider.
type MattermostConfig struct {
	// Enabled indicates whether Mattermost delivery is switched on
	Enabled bool

	// WebhookURL is the Mattermost incoming webhook URL
	WebhookURL string

	// Username overrides the webhook's display name when set
	Username string

	// Timeout is the HTTP request timeout for Mattermost API calls
	Timeout time.Duration
}

// MattermostProvider delivers post notifications to Mattermost channels
// via an incoming webhook, overriding the target channel per message.
type MattermostProvider struct {
	config MattermostConfig
	client *webhookClient
}

// NewMattermostProvider creates a Mattermost provider.
func NewMattermostProvider(config MattermostConfig) *MattermostProvider {
	return &MattermostProvider{
		config: config,
		client: newWebhookClient("mattermost", config.Timeout, 1.0, 1),
	}
}

type mattermostPayload struct {
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text"`
}

const (
	mattermostMaxTextLength    = 4000
	mattermostTruncationSuffix = "..."
)

func (m *MattermostProvider) Name() string    { return "mattermost" }
func (m *MattermostProvider) IsEnabled() bool { return m.config.Enabled }

// Deliver posts the message to the given Mattermost channel.
func (m *MattermostProvider) Deliver(ctx context.Context, channel string, msg *entity.Message) error {
	text := fmt.Sprintf("**[%s](%s)**\n\n%s\n\n_%s_", msg.Title, msg.Link, msg.Excerpt, contextLine(msg))
	payload := mattermostPayload{
		Channel:  channel,
		Username: m.config.Username,
		Text:     truncate(text, mattermostMaxTextLength, mattermostTruncationSuffix),
	}
	return m.client.post(ctx, m.config.WebhookURL, channel, payload)
}
