package respond

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
		excludes string
	}{
		{
			name:     "nil error",
			err:      nil,
			contains: "",
		},
		{
			name:     "slack webhook URL masked",
			err:      errors.New("post https://hooks.slack.com/services/T0001/B0002/XXsecretXX: 404"),
			contains: "hooks.slack.com/services/****",
			excludes: "XXsecretXX",
		},
		{
			name:     "discord webhook URL masked",
			err:      errors.New("post https://discord.com/api/webhooks/1234567890/aBcD_eF-123: timeout"),
			contains: "discord.com/api/webhooks/****",
			excludes: "aBcD_eF-123",
		},
		{
			name:     "telegram token masked",
			err:      errors.New("telegram: 110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw failed"),
			contains: "****",
			excludes: "AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw",
		},
		{
			name:     "dsn password masked",
			err:      errors.New("connect postgres://chat:hunter2@db:5432/chat failed"),
			contains: "://chat:****@",
			excludes: "hunter2",
		},
		{
			name:     "plain error untouched",
			err:      errors.New("rule not found"),
			contains: "rule not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeError(tt.err)
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q to contain %q", got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("expected %q to mask %q", got, tt.excludes)
			}
		})
	}
}
