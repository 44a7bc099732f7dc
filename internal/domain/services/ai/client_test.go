package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"honeytrap-lab/pkg/logger"
)

func TestChatRequiresAPIKey(t *testing.T) {
	c := NewClient(Config{Provider: "openai"}, logger.NewDefault())
	_, err := c.Chat(context.Background(), "system", []Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c = NewClient(Config{Provider: "claude"}, logger.NewDefault())
	_, err = c.Chat(context.Background(), "system", nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c = NewClient(Config{Provider: "llama"}, logger.NewDefault())
	_, err = c.Chat(context.Background(), "system", nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoAPIKey)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{Provider: "claude"}, logger.NewDefault())
	assert.Equal(t, "claude-3-5-haiku-latest", c.Model())

	c = NewClient(Config{Provider: "openai"}, logger.NewDefault())
	assert.Equal(t, "gpt-4o-mini", c.Model())
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Sure, here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"no object", "cannot comply", "cannot comply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}
