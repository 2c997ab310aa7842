// Package openai turns grounded prompts into assistant replies through an
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	openaisdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"recommender/internal/domain"
)

// Config configures the chat completions client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	// Temperature is sent only when non-nil.
	Temperature  *float64
	SystemPrompt string
}

// Client implements domain.Generator.
type Client struct {
	client       openaisdk.Client
	model        string
	temperature  *float64
	systemPrompt string
}

func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		client: openaisdk.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(key),
			option.WithRequestTimeout(t),
			option.WithMaxRetries(cfg.MaxRetries),
		),
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Model returns the chat model identifier.
func (c *Client) Model() string { return c.model }

// Generate sends the prior conversation followed by prompt as the last user message.
func (c *Client) Generate(ctx context.Context, prompt string, history []domain.ConversationTurn) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Messages: Messages(c.systemPrompt, prompt, history),
		Model:    shared.ChatModel(c.model),
	}
	if c.temperature != nil {
		params.Temperature = openaisdk.Float(*c.temperature)
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Messages maps the conversation log onto chat messages.
func Messages(system, prompt string, history []domain.ConversationTurn) []openaisdk.ChatCompletionMessageParamUnion {
	msgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, openaisdk.SystemMessage(system))
	}
	for _, turn := range history {
		switch turn.Role {
		case domain.RoleAssistant:
			msgs = append(msgs, openaisdk.AssistantMessage(turn.Content))
		default:
			msgs = append(msgs, openaisdk.UserMessage(turn.Content))
		}
	}
	return append(msgs, openaisdk.UserMessage(prompt))
}
