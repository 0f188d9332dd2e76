package notifier

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chat-integration/internal/domain/entity"
)

// TelegramConfig contains configuration for the Telegram provider.
type TelegramConfig struct {
	// Enabled indicates whether Telegram delivery is switched on
	Enabled bool

	// Token is the bot API token
	Token string

	// APIEndpoint overrides the bot API endpoint. Empty means the
	// public api.telegram.org. Used by tests.
	APIEndpoint string

	// Timeout is the HTTP request timeout for bot API calls
	Timeout time.Duration
}

// telegramSender is the subset of the bot API client used for
// delivery. Narrowed for tests.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramProvider delivers post notifications through the Telegram bot
// API. Rule channels name either a public channel ("@announcements") or
// a numeric chat id.
type TelegramProvider struct {
	config  TelegramConfig
	bot     telegramSender
	limiter *RateLimiter
}

// NewTelegramProvider creates a Telegram provider. The bot client is
// constructed without the usual getMe probe so that process start does
// not depend on Telegram being reachable.
func NewTelegramProvider(config TelegramConfig) *TelegramProvider {
	bot := &tgbotapi.BotAPI{
		Token:  config.Token,
		Client: &http.Client{Timeout: config.Timeout},
		Buffer: 100,
	}
	endpoint := config.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot.SetAPIEndpoint(endpoint)

	return &TelegramProvider{
		config: config,
		bot:    bot,
		// Bot API allows ~1 message per second per chat.
		limiter: NewRateLimiter(1.0, 5),
	}
}

func (t *TelegramProvider) Name() string    { return "telegram" }
func (t *TelegramProvider) IsEnabled() bool { return t.config.Enabled }

// Deliver sends the message to the given Telegram chat.
func (t *TelegramProvider) Deliver(ctx context.Context, channel string, msg *entity.Message) error {
	if err := t.limiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	m, err := buildTelegramMessage(channel, msg)
	if err != nil {
		return err
	}

	if _, err := t.bot.Send(m); err != nil {
		return classifyTelegramError(err)
	}
	return nil
}

const telegramMaxTextLength = 4096

// buildTelegramMessage resolves the channel identifier and renders the
// HTML message body.
func buildTelegramMessage(channel string, msg *entity.Message) (tgbotapi.MessageConfig, error) {
	text := fmt.Sprintf("<b><a href=%q>%s</a></b>\n\n%s\n\n<i>%s</i>",
		msg.Link,
		html.EscapeString(msg.Title),
		html.EscapeString(msg.Excerpt),
		html.EscapeString(contextLine(msg)))
	text = truncate(text, telegramMaxTextLength, "...")

	var m tgbotapi.MessageConfig
	switch {
	case strings.HasPrefix(channel, "@"):
		m = tgbotapi.NewMessageToChannel(channel, text)
	default:
		chatID, err := strconv.ParseInt(channel, 10, 64)
		if err != nil {
			return tgbotapi.MessageConfig{}, &ClientError{
				Message: fmt.Sprintf("telegram: channel %q is neither @name nor a chat id", channel),
			}
		}
		m = tgbotapi.NewMessage(chatID, text)
	}
	m.ParseMode = tgbotapi.ModeHTML
	return m, nil
}

// classifyTelegramError maps bot API failures onto the shared webhook
// error taxonomy so the dispatch layer treats all providers uniformly.
func classifyTelegramError(err error) error {
	var apiErr *tgbotapi.Error
	if ok := asTelegramError(err, &apiErr); ok {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			retryAfter := defaultRetryAfter
			if apiErr.RetryAfter > 0 {
				retryAfter = time.Duration(apiErr.RetryAfter) * time.Second
			}
			return &RateLimitError{Message: "telegram rate limit exceeded", RetryAfter: retryAfter}
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return &ClientError{StatusCode: apiErr.Code, Message: fmt.Sprintf("telegram API client error: %s", apiErr.Message)}
		case apiErr.Code >= 500:
			return &ServerError{StatusCode: apiErr.Code, Message: fmt.Sprintf("telegram API server error: %s", apiErr.Message)}
		}
	}
	return fmt.Errorf("telegram send: %w", err)
}

func asTelegramError(err error, target **tgbotapi.Error) bool {
	e, ok := err.(*tgbotapi.Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
