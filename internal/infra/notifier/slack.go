package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chat-integration/internal/domain/entity"
)

// SlackConfig contains configuration for the Slack provider.
type SlackConfig struct {
	// Enabled indicates whether Slack delivery is switched on
	Enabled bool

	// WebhookURL is the Slack Incoming Webhook URL (includes the token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration
}

// SlackProvider delivers post notifications to Slack channels via an
// Incoming Webhook, overriding the target channel per message.
type SlackProvider struct {
	config SlackConfig
	client *webhookClient
}

// NewSlackProvider creates a Slack provider. The rate limiter matches
// the Slack webhook limit of 1 message per second.
func NewSlackProvider(config SlackConfig) *SlackProvider {
	return &SlackProvider{
		config: config,
		client: newWebhookClient("slack", config.Timeout, 1.0, 1),
	}
}

// slackPayload is the Block Kit payload posted to the webhook. The
// channel field overrides the webhook's default destination.
type slackPayload struct {
	Channel string       `json:"channel,omitempty"`
	Text    string       `json:"text"` // notification fallback
	Blocks  []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string            `json:"type"` // "section" or "context"
	Text     *slackTextObject  `json:"text,omitempty"`
	Elements []slackTextObject `json:"elements,omitempty"`
}

type slackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"`
}

const (
	slackMaxSectionLength  = 3000
	slackMaxFallbackLength = 150
	slackTruncationSuffix  = "..."
)

func (s *SlackProvider) Name() string    { return "slack" }
func (s *SlackProvider) IsEnabled() bool { return s.config.Enabled }

// Deliver posts the message to the given Slack channel.
func (s *SlackProvider) Deliver(ctx context.Context, channel string, msg *entity.Message) error {
	return s.client.post(ctx, s.config.WebhookURL, channel, s.buildPayload(channel, msg))
}

func (s *SlackProvider) buildPayload(channel string, msg *entity.Message) slackPayload {
	fallback := truncate(msg.Title, slackMaxFallbackLength, slackTruncationSuffix)

	sectionText := fmt.Sprintf("*<%s|%s>*\n\n%s", msg.Link, msg.Title, msg.Excerpt)
	sectionText = truncate(sectionText, slackMaxSectionLength, slackTruncationSuffix)

	section := slackBlock{
		Type: "section",
		Text: &slackTextObject{Type: "mrkdwn", Text: sectionText},
	}
	contextBlock := slackBlock{
		Type: "context",
		Elements: []slackTextObject{
			{Type: "mrkdwn", Text: contextLine(msg)},
		},
	}

	return slackPayload{
		Channel: channel,
		Text:    fallback,
		Blocks:  []slackBlock{section, contextBlock},
	}
}

// contextLine renders the category and tag labels shown under the
// excerpt, e.g. "releases • #news #api".
func contextLine(msg *entity.Message) string {
	parts := make([]string, 0, 2)
	if msg.CategoryName != "" {
		parts = append(parts, msg.CategoryName)
	}
	if len(msg.Tags) > 0 {
		tags := make([]string, len(msg.Tags))
		for i, t := range msg.Tags {
			tags[i] = "#" + t
		}
		parts = append(parts, strings.Join(tags, " "))
	}
	if len(parts) == 0 {
		return "uncategorized"
	}
	return strings.Join(parts, " • ")
}
