package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var errUnknownDriver = errors.New("must be postgres or sqlite")

// ProvidersConfig describes the chat provider transports. It is loaded
// from a YAML file, with secrets optionally supplied through the
// environment instead of the file.
type ProvidersConfig struct {
	Slack struct {
		Enabled    bool          `yaml:"enabled"`
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"slack"`

	Discord struct {
		Enabled bool `yaml:"enabled"`
		// Webhooks maps rule channel identifiers to webhook URLs.
		Webhooks map[string]string `yaml:"webhooks"`
		Timeout  time.Duration     `yaml:"timeout"`
	} `yaml:"discord"`

	Mattermost struct {
		Enabled    bool          `yaml:"enabled"`
		WebhookURL string        `yaml:"webhook_url"`
		Username   string        `yaml:"username"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"mattermost"`

	Telegram struct {
		Enabled bool          `yaml:"enabled"`
		Token   string        `yaml:"token"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`

	Noop struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"noop"`
}

// LoadProviders reads the provider configuration from path. A missing
// file yields a configuration with every provider disabled, so a fresh
// deployment starts cleanly before any provider is set up. Webhook URLs
// and tokens left empty in the file are filled from SLACK_WEBHOOK_URL,
// MATTERMOST_WEBHOOK_URL and TELEGRAM_BOT_TOKEN, keeping secrets out of
// the file when preferred.
func LoadProviders(path string) (*ProvidersConfig, error) {
	var cfg ProvidersConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read providers config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse providers config: %w", err)
	}

	if cfg.Slack.WebhookURL == "" {
		cfg.Slack.WebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	if cfg.Mattermost.WebhookURL == "" {
		cfg.Mattermost.WebhookURL = os.Getenv("MATTERMOST_WEBHOOK_URL")
	}
	if cfg.Telegram.Token == "" {
		cfg.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}

	if err := validateProviders(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateProviders(cfg *ProvidersConfig) error {
	if cfg.Slack.Enabled && cfg.Slack.WebhookURL == "" {
		return errors.New("slack is enabled but has no webhook_url")
	}
	if cfg.Discord.Enabled && len(cfg.Discord.Webhooks) == 0 {
		return errors.New("discord is enabled but has no webhooks")
	}
	if cfg.Mattermost.Enabled && cfg.Mattermost.WebhookURL == "" {
		return errors.New("mattermost is enabled but has no webhook_url")
	}
	if cfg.Telegram.Enabled && cfg.Telegram.Token == "" {
		return errors.New("telegram is enabled but has no token")
	}
	return nil
}
