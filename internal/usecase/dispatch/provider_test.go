package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryEnabled(t *testing.T) {
	slack := &fakeProvider{name: "slack", enabled: true}
	discord := &fakeProvider{name: "discord", enabled: false}
	telegram := &fakeProvider{name: "telegram", enabled: true}

	reg := NewRegistry(slack, discord, telegram)

	enabled := reg.Enabled()
	assert.Len(t, enabled, 2)
	assert.Equal(t, "slack", enabled[0].Name(), "registration order preserved")
	assert.Equal(t, "telegram", enabled[1].Name())

	assert.Equal(t, []string{"slack", "telegram"}, reg.EnabledNames())
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(
		&fakeProvider{name: "slack", enabled: true},
		&fakeProvider{name: "discord", enabled: false},
	)

	p, ok := reg.Lookup("slack")
	assert.True(t, ok)
	assert.Equal(t, "slack", p.Name())

	_, ok = reg.Lookup("discord")
	assert.False(t, ok, "disabled providers are invisible through Lookup")

	_, ok = reg.Lookup("matrix")
	assert.False(t, ok)

	assert.True(t, reg.Has("slack"))
	assert.False(t, reg.Has("discord"))
}

func TestRegistryEmpty(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.Enabled())
	assert.Empty(t, reg.EnabledNames())
}
