package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"honeytrap-lab/pkg/logger"
)

// ErrNoAPIKey is returned when no credential is configured for the
// active provider
var ErrNoAPIKey = errors.New("no API key configured for LLM provider")

// Client provides access to large language model APIs
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     Config
}

// Config holds LLM client configuration
type Config struct {
	Provider     string // claude, openai
	ClaudeAPIKey string
	OpenAIAPIKey string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// NewClient creates a new LLM client
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Model == "" {
		if cfg.Provider == "claude" {
			cfg.Model = "claude-3-5-haiku-latest"
		} else {
			cfg.Model = "gpt-4o-mini"
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("llm-client"),
		config: cfg,
	}
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.config.Model
}

// Chat sends messages to the configured provider and returns the text
// completion
func (c *Client) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	switch c.config.Provider {
	case "claude":
		if c.config.ClaudeAPIKey == "" {
			return "", ErrNoAPIKey
		}
		return c.callClaude(ctx, system, messages)
	case "openai":
		if c.config.OpenAIAPIKey == "" {
			return "", ErrNoAPIKey
		}
		return c.callOpenAI(ctx, system, messages)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", c.config.Provider)
	}
}

// callClaude makes a request to the Anthropic Messages API
func (c *Client) callClaude(ctx context.Context, system string, messages []Message) (string, error) {
	url := "https://api.anthropic.com/v1/messages"

	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"system":      system,
		"messages":    messages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.ClaudeAPIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Claude API error %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", err
	}

	var content strings.Builder
	for _, part := range claudeResp.Content {
		if part.Type == "text" {
			content.WriteString(part.Text)
		}
	}
	return content.String(), nil
}

// callOpenAI makes a request to the OpenAI chat completions API
func (c *Client) callOpenAI(ctx context.Context, system string, messages []Message) (string, error) {
	url := "https://api.openai.com/v1/chat/completions"

	openAIMessages := make([]Message, 0, len(messages)+1)
	if system != "" {
		openAIMessages = append(openAIMessages, Message{Role: "system", Content: system})
	}
	openAIMessages = append(openAIMessages, messages...)

	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"messages":    openAIMessages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.OpenAIAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(body))
	}

	var openAIResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", err
	}
	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}

// ExtractJSON strips markdown fences and surrounding prose from a model
// response, leaving the outermost JSON object
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx != -1 && endIdx != -1 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	return content
}
