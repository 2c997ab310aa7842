package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"recommender/internal/catalog"
	"recommender/internal/config"
	"recommender/internal/domain"
	embopenai "recommender/internal/embedding/openai"
	"recommender/internal/embedding/tfidf"
	genopenai "recommender/internal/generation/openai"
	"recommender/internal/resolver"
	"recommender/internal/service"
)

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return embopenai.NewClient(embopenai.Config{
			BaseURL:        cfg.OpenAI.BaseURL,
			APIKeyEnv:      cfg.OpenAI.APIKeyEnv,
			Model:          cfg.OpenAI.Model,
			Timeout:        time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries:     cfg.OpenAI.MaxRetries,
			DocumentPrefix: cfg.OpenAI.DocumentPrefix,
			QueryPrefix:    cfg.OpenAI.QueryPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func newGenerator(cfg config.GeneratorConfig) (domain.Generator, error) {
	switch cfg.Type {
	case "openai", "":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai generator config missing")
		}
		return genopenai.NewClient(genopenai.Config{
			BaseURL:      cfg.OpenAI.BaseURL,
			APIKeyEnv:    cfg.OpenAI.APIKeyEnv,
			Model:        cfg.OpenAI.Model,
			Timeout:      time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries:   cfg.OpenAI.MaxRetries,
			Temperature:  cfg.OpenAI.Temperature,
			SystemPrompt: cfg.OpenAI.SystemPrompt,
		})
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Type)
	}
}

// newRecommender loads the catalog and builds the index. It returns the catalog so
// callers can show the session banner.
func newRecommender(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*service.Recommender, []domain.Product, error) {
	products, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	emb, err := newEmbedder(cfg.Embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("embedder init failed: %w", err)
	}
	gen, err := newGenerator(cfg.Generator)
	if err != nil {
		return nil, nil, fmt.Errorf("generator init failed: %w", err)
	}
	svc, err := service.New(ctx, service.Deps{
		Embedder:  emb,
		Generator: gen,
		Products:  products,
		Retrieval: resolver.Config{
			Threshold:    cfg.Retrieval.Threshold,
			FallbackTopK: cfg.Retrieval.FallbackTopK,
		},
		MaxGrounded: cfg.Retrieval.MaxGrounded,
		Logger:      log,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, products, nil
}
