// Package resolver maps a user utterance onto ranked catalog candidates: an explicit
// product name wins outright, otherwise the query is embedded and ranked by similarity.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"recommender/internal/domain"
	"recommender/internal/index"
)

const (
	DefaultThreshold    = 0.55
	DefaultFallbackTopK = 5
)

// Config holds the threshold-and-fallback policy. A nil Threshold means
// DefaultThreshold; any set value, zero or negative included, is used as is.
type Config struct {
	Threshold    *float64
	FallbackTopK int
}

// Resolver turns a query into ranked candidates over a built index.
type Resolver struct {
	index     *index.Index
	embedder  domain.Embedder
	threshold float64
	topK      int
	log       zerolog.Logger
	products  []domain.Product
	names     []string
}

// New returns a Resolver over ix. FallbackTopK below 1 means DefaultFallbackTopK.
func New(ix *index.Index, emb domain.Embedder, cfg Config, log zerolog.Logger) *Resolver {
	threshold := DefaultThreshold
	if cfg.Threshold != nil {
		threshold = *cfg.Threshold
	}
	topK := cfg.FallbackTopK
	if topK <= 0 {
		topK = DefaultFallbackTopK
	}
	products := ix.Products()
	names := make([]string, len(products))
	for i, p := range products {
		if strings.TrimSpace(p.Name) != "" {
			names[i] = strings.ToLower(p.Name)
		}
	}
	return &Resolver{
		index:     ix,
		embedder:  emb,
		threshold: threshold,
		topK:      topK,
		log:       log.With().Str("component", "resolver").Logger(),
		products:  products,
		names:     names,
	}
}

// Resolve returns at least one candidate for a non-empty catalog. History does not
// affect ranking.
func (r *Resolver) Resolve(ctx context.Context, query string, history []domain.ConversationTurn) ([]domain.CandidateMatch, error) {
	if m, ok := r.ExactMatch(query); ok {
		r.log.Debug().Str("stage", "exact").Str("product", m.Product.Name).Msg("resolved")
		return []domain.CandidateMatch{m}, nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{query}, domain.EmbedRoleQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors, want 1", len(vectors))
	}
	ranked, err := r.index.Rank(vectors[0])
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	out := r.applyThreshold(ranked)
	ev := r.log.Debug().Str("stage", "semantic").Int("candidates", len(out))
	if len(ranked) > 0 {
		ev = ev.Float64("top_score", ranked[0].Score)
	}
	ev.Msg("resolved")
	return out, nil
}

// ExactMatch reports the first product, in catalog order, whose name appears in the
// query case-insensitively.
func (r *Resolver) ExactMatch(query string) (domain.CandidateMatch, bool) {
	q := strings.ToLower(query)
	for i, name := range r.names {
		if name == "" {
			continue
		}
		if strings.Contains(q, name) {
			return domain.CandidateMatch{Index: i, Product: r.products[i], Score: 1.0}, true
		}
	}
	return domain.CandidateMatch{}, false
}

func (r *Resolver) applyThreshold(ranked []domain.CandidateMatch) []domain.CandidateMatch {
	var kept []domain.CandidateMatch
	for _, c := range ranked {
		if c.Score >= r.threshold {
			kept = append(kept, c)
		}
	}
	if len(kept) > 0 {
		return kept
	}
	k := r.topK
	if k > len(ranked) {
		k = len(ranked)
	}
	r.log.Debug().Int("top_k", k).Msg("no candidate above threshold, falling back")
	return ranked[:k]
}
