// Package grounding assembles a prompt that restricts the generator to the facts of the
// resolved candidates, and asks the generator for the reply.
package grounding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"recommender/internal/catalog"
	"recommender/internal/domain"
)

// MaxCandidates is the most products whose facts ever reach the generator.
const MaxCandidates = 3

// Currency is the unit every catalog price is expressed in.
const Currency = "INR"

// ErrNoCandidates is returned when there is nothing to ground a reply on.
var ErrNoCandidates = errors.New("no candidates to ground the reply on")

// Builder renders grounded prompts and asks the generator for the reply.
type Builder struct {
	gen   domain.Generator
	limit int
	log   zerolog.Logger
}

// New returns a Builder forwarding at most limit candidates. Values outside
// 1..MaxCandidates fall back to MaxCandidates.
func New(gen domain.Generator, limit int, log zerolog.Logger) *Builder {
	if limit <= 0 || limit > MaxCandidates {
		limit = MaxCandidates
	}
	return &Builder{gen: gen, limit: limit, log: log.With().Str("component", "grounding").Logger()}
}

// BuildReply renders the grounded prompt and returns the generator's text untouched.
// The full prior history goes along as context.
func (b *Builder) BuildReply(ctx context.Context, query string, candidates []domain.CandidateMatch, history []domain.ConversationTurn) (string, error) {
	prompt, err := b.BuildPrompt(query, candidates)
	if err != nil {
		return "", err
	}
	b.log.Debug().Int("grounded", min(len(candidates), b.limit)).Int("history", len(history)).Msg("generating reply")
	reply, err := b.gen.Generate(ctx, prompt, history)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return reply, nil
}

// BuildPrompt serializes the facts of the top candidates into the instruction prompt.
func (b *Builder) BuildPrompt(query string, candidates []domain.CandidateMatch) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	if len(candidates) > b.limit {
		candidates = candidates[:b.limit]
	}
	facts := make([]catalog.Facts, len(candidates))
	for i, c := range candidates {
		facts[i] = catalog.GroundingFacts(c.Product)
	}
	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal facts: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful shopping assistant for a laptop store.\n")
	fmt.Fprintf(&sb, "The customer asked: %q\n\n", strings.TrimSpace(query))
	sb.WriteString("Products available for this answer:\n")
	sb.Write(data)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- Only recommend products from the list above. Never mention any other product, brand or model.\n")
	fmt.Fprintf(&sb, "- All prices are in %s. State prices in %s.\n", Currency, Currency)
	if len(facts) == 1 {
		fmt.Fprintf(&sb, "- Only one product matched: %s. Answer specifically about it and explain in 2-3 sentences whether it fits the request.\n", facts[0].Name)
	} else {
		sb.WriteString("- Suggest 1-2 products from the list and justify each suggestion in 2-3 sentences using the listed facts.\n")
	}
	sb.WriteString("- If none of the listed products fits the request, say that there is no good match in the current catalog and mention the closest option.\n")
	return sb.String(), nil
}
