package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"recommender/internal/domain"
	"recommender/internal/grounding"
	"recommender/internal/index"
	"recommender/internal/resolver"
	"recommender/internal/vectorstore"
	"recommender/internal/vectorstore/memory"
)

// Deps wires the recommender to its collaborators.
type Deps struct {
	Embedder  domain.Embedder
	Generator domain.Generator
	Products  []domain.Product
	// Store defaults to the in-memory store.
	Store     vectorstore.Storage
	Retrieval resolver.Config
	// MaxGrounded limits how many candidates reach the prompt, capped at grounding.MaxCandidates.
	MaxGrounded int
	Logger      zerolog.Logger
}

// TurnResult is the outcome of one handled turn.
type TurnResult struct {
	TurnID     string
	Query      string
	Reply      string
	Candidates []domain.CandidateMatch
}

// Turns returns the user and assistant turns the caller appends to its log.
func (r *TurnResult) Turns() []domain.ConversationTurn {
	return []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: r.Query},
		{Role: domain.RoleAssistant, Content: r.Reply},
	}
}

// Recommender answers one user turn at a time. Apart from the read-only index it
// holds no state, so concurrent turns are safe.
type Recommender struct {
	index    *index.Index
	resolver *resolver.Resolver
	builder  *grounding.Builder
	log      zerolog.Logger
}

// New builds the embedding index. Errors here are fatal for startup.
func New(ctx context.Context, deps Deps) (*Recommender, error) {
	store := deps.Store
	if store == nil {
		store = memory.NewStorage()
	}
	start := time.Now()
	ix, err := index.Build(ctx, deps.Embedder, deps.Products, store)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	deps.Logger.Info().
		Int("products", ix.Len()).
		Int("dimension", ix.Dimension()).
		Str("embedder", deps.Embedder.Model()).
		Dur("took", time.Since(start)).
		Msg("catalog indexed")

	return &Recommender{
		index:    ix,
		resolver: resolver.New(ix, deps.Embedder, deps.Retrieval, deps.Logger),
		builder:  grounding.New(deps.Generator, deps.MaxGrounded, deps.Logger),
		log:      deps.Logger,
	}, nil
}

// Len returns the number of indexed products.
func (s *Recommender) Len() int { return s.index.Len() }

// Resolve exposes candidate resolution without generating a reply.
func (s *Recommender) Resolve(ctx context.Context, query string, history []domain.ConversationTurn) ([]domain.CandidateMatch, error) {
	return s.resolver.Resolve(ctx, strings.TrimSpace(query), history)
}

// HandleTurn resolves the query and generates a grounded reply. A blank query is a
// no-op: it returns nil, nil and touches no service. history is read, never modified.
func (s *Recommender) HandleTurn(ctx context.Context, query string, history []domain.ConversationTurn) (*TurnResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	turnID := uuid.NewString()
	log := s.log.With().Str("turn_id", turnID).Logger()
	start := time.Now()

	candidates, err := s.resolver.Resolve(ctx, query, history)
	if err != nil {
		log.Error().Err(err).Msg("resolve failed")
		return nil, fmt.Errorf("resolve: %w", err)
	}
	reply, err := s.builder.BuildReply(ctx, query, candidates, history)
	if err != nil {
		log.Error().Err(err).Msg("reply failed")
		return nil, fmt.Errorf("build reply: %w", err)
	}

	log.Info().
		Int("candidates", len(candidates)).
		Str("top", candidates[0].Product.Name).
		Float64("top_score", candidates[0].Score).
		Dur("took", time.Since(start)).
		Msg("turn handled")
	return &TurnResult{TurnID: turnID, Query: query, Reply: reply, Candidates: candidates}, nil
}
