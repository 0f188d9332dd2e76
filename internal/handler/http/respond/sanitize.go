package respond

import (
	"regexp"
)

var (
	// Incoming webhook URLs embed their secret in the path.
	slackWebhookPattern   = regexp.MustCompile(`hooks\.slack\.com/services/[A-Za-z0-9/]+`)
	discordWebhookPattern = regexp.MustCompile(`discord\.com/api/webhooks/\d+/[A-Za-z0-9_-]+`)

	// Telegram bot tokens appear in bot API URLs and error strings.
	telegramTokenPattern = regexp.MustCompile(`\b\d+:[A-Za-z0-9_-]{30,}\b`)

	// Database passwords inside DSNs.
	dbPasswordPattern = regexp.MustCompile(`://([^:/]+):([^@]+)@`)
)

// SanitizeError returns the error message with webhook secrets, bot
// tokens, and DSN passwords masked. Used before logging errors that may
// carry provider configuration.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = slackWebhookPattern.ReplaceAllString(msg, "hooks.slack.com/services/****")
	msg = discordWebhookPattern.ReplaceAllString(msg, "discord.com/api/webhooks/****")
	msg = telegramTokenPattern.ReplaceAllString(msg, "****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
