package notifier

import (
	"context"
	"fmt"
	"time"

	"chat-integration/internal/domain/entity"
)

// DiscordConfig contains configuration for the Discord provider. Discord
// webhooks are bound to a single channel, so the provider carries one
// webhook URL per configured channel name.
type DiscordConfig struct {
	// Enabled indicates whether Discord delivery is switched on
	Enabled bool

	// Webhooks maps rule channel identifiers to webhook URLs
	Webhooks map[string]string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration
}

// DiscordProvider delivers post notifications to Discord via per-channel
// webhooks.
type DiscordProvider struct {
	config DiscordConfig
	client *webhookClient
}

// NewDiscordProvider creates a Discord provider. The rate limiter
// matches the Discord webhook limit of 30 requests per minute.
func NewDiscordProvider(config DiscordConfig) *DiscordProvider {
	return &DiscordProvider{
		config: config,
		client: newWebhookClient("discord", config.Timeout, 0.5, 3),
	}
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url"`
	Color       int                `json:"color"`
	Footer      discordEmbedFooter `json:"footer"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	discordMaxTitleLength       = 256
	discordMaxDescriptionLength = 4096
	discordTruncationSuffix     = "..."

	// Discord blurple (#5865F2)
	discordEmbedColor = 5793266
)

func (d *DiscordProvider) Name() string    { return "discord" }
func (d *DiscordProvider) IsEnabled() bool { return d.config.Enabled }

// Deliver posts the message to the webhook configured for the given
// channel. A channel without a configured webhook is a client error:
// retrying cannot fix it, only configuration can.
func (d *DiscordProvider) Deliver(ctx context.Context, channel string, msg *entity.Message) error {
	url, ok := d.config.Webhooks[channel]
	if !ok {
		return &ClientError{Message: fmt.Sprintf("discord: no webhook configured for channel %q", channel)}
	}
	return d.client.post(ctx, url, channel, d.buildPayload(msg))
}

func (d *DiscordProvider) buildPayload(msg *entity.Message) discordPayload {
	description := truncate(msg.Excerpt, discordMaxDescriptionLength, discordTruncationSuffix)

	return discordPayload{
		Embeds: []discordEmbed{{
			Title:       truncate(msg.Title, discordMaxTitleLength, discordTruncationSuffix),
			Description: description,
			URL:         msg.Link,
			Color:       discordEmbedColor,
			Footer:      discordEmbedFooter{Text: contextLine(msg)},
		}},
	}
}
