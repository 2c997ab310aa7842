package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	openaisdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"recommender/internal/domain"
)

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
type Client struct {
	client         openaisdk.Client
	model          string
	documentPrefix string
	queryPrefix    string
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	// MaxRetries is handed to the SDK. The resolver itself never retries.
	MaxRetries int
	// Some embedding models expect a task prefix to tell documents from queries.
	// The prefixes stand in for an input_type field (search_document, search_query)
	// that the embeddings endpoint does not have.
	DocumentPrefix string
	QueryPrefix    string
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
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
		model:          cfg.Model,
		documentPrefix: cfg.DocumentPrefix,
		queryPrefix:    cfg.QueryPrefix,
	}, nil
}

// Model returns the embedding model identifier.
func (c *Client) Model() string { return c.model }

// Embed sends the whole batch in one request and returns vectors in input order.
func (c *Client) Embed(ctx context.Context, texts []string, role domain.EmbedRole) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts to embed")
	}
	prefix := c.queryPrefix
	if role == domain.EmbedRoleDocument {
		prefix = c.documentPrefix
	}
	input := make([]string, len(texts))
	for i, t := range texts {
		input[i] = prefix + t
	}

	resp, err := c.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: input},
		Model: openaisdk.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings returned %d vectors for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			return nil, fmt.Errorf("openai embeddings returned unexpected index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, errors.New("empty embedding")
		}
		out[idx] = d.Embedding
	}
	return out, nil
}
