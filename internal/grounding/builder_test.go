package grounding

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender/internal/catalog"
	"recommender/internal/domain"
)

type recordingGenerator struct {
	reply   string
	err     error
	prompt  string
	history []domain.ConversationTurn
	calls   int
}

func (g *recordingGenerator) Generate(_ context.Context, prompt string, history []domain.ConversationTurn) (string, error) {
	g.calls++
	g.prompt = prompt
	g.history = history
	return g.reply, g.err
}

func candidates(n int) []domain.CandidateMatch {
	out := make([]domain.CandidateMatch, n)
	for i := range out {
		out[i] = domain.CandidateMatch{
			Index: i,
			Product: domain.Product{
				Name:     "Laptop " + string(rune('A'+i)),
				Category: "ultrabook",
				CPU:      "i7-1260P",
				Price:    domain.Float(float64(40000 + i*10000)),
				RAMGB:    domain.Float(16),
			},
			Score: 0.9 - float64(i)*0.1,
		}
	}
	return out
}

// factsIn pulls the JSON fact array back out of a rendered prompt.
func factsIn(t *testing.T, prompt string) []catalog.Facts {
	t.Helper()
	start := strings.Index(prompt, "[")
	end := strings.LastIndex(prompt, "]")
	require.True(t, start >= 0 && end > start, "no facts in prompt")
	var facts []catalog.Facts
	require.NoError(t, json.Unmarshal([]byte(prompt[start:end+1]), &facts))
	return facts
}

func TestBuildPrompt_CapsAtThree(t *testing.T) {
	b := New(&recordingGenerator{}, 0, zerolog.Nop())

	prompt, err := b.BuildPrompt("light laptop", candidates(5))
	require.NoError(t, err)

	facts := factsIn(t, prompt)
	require.Len(t, facts, 3)
	assert.Equal(t, "Laptop A", facts[0].Name)
	assert.Equal(t, "Laptop C", facts[2].Name)
	assert.NotContains(t, prompt, "Laptop D")
}

func TestBuildPrompt_ConfiguredLimitCannotExceedCap(t *testing.T) {
	b := New(&recordingGenerator{}, 10, zerolog.Nop())
	prompt, err := b.BuildPrompt("q", candidates(5))
	require.NoError(t, err)
	assert.Len(t, factsIn(t, prompt), 3)

	b = New(&recordingGenerator{}, 2, zerolog.Nop())
	prompt, err = b.BuildPrompt("q", candidates(5))
	require.NoError(t, err)
	assert.Len(t, factsIn(t, prompt), 2)
}

func TestBuildPrompt_ExcludesCategoryAndCPU(t *testing.T) {
	b := New(&recordingGenerator{}, 0, zerolog.Nop())
	prompt, err := b.BuildPrompt("q", candidates(2))
	require.NoError(t, err)

	assert.NotContains(t, prompt, "ultrabook")
	assert.NotContains(t, prompt, "i7-1260P")
	assert.Contains(t, prompt, `"ram_gb": 16`)
	assert.Contains(t, prompt, `"price": 40000`)
}

func TestBuildPrompt_Instructions(t *testing.T) {
	b := New(&recordingGenerator{}, 0, zerolog.Nop())
	prompt, err := b.BuildPrompt("  gaming laptop  ", candidates(2))
	require.NoError(t, err)

	assert.Contains(t, prompt, `"gaming laptop"`)
	assert.Contains(t, prompt, "Only recommend products from the list above")
	assert.Contains(t, prompt, "Suggest 1-2 products")
	assert.Contains(t, prompt, "2-3 sentences")
	assert.Contains(t, prompt, "no good match")
	assert.Contains(t, prompt, "INR")
}

func TestBuildPrompt_SingleCandidateIsNamed(t *testing.T) {
	b := New(&recordingGenerator{}, 0, zerolog.Nop())
	prompt, err := b.BuildPrompt("tell me about Laptop A", candidates(1))
	require.NoError(t, err)

	assert.Contains(t, prompt, "Only one product matched: Laptop A.")
	assert.NotContains(t, prompt, "Suggest 1-2 products")
}

func TestBuildPrompt_NoCandidates(t *testing.T) {
	b := New(&recordingGenerator{}, 0, zerolog.Nop())
	_, err := b.BuildPrompt("q", nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestBuildReply_PassesHistoryAndReturnsReplyVerbatim(t *testing.T) {
	gen := &recordingGenerator{reply: "  Take the Laptop A.\n"}
	b := New(gen, 0, zerolog.Nop())
	history := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello, what do you need?"},
	}

	reply, err := b.BuildReply(context.Background(), "cheap one", candidates(2), history)
	require.NoError(t, err)

	assert.Equal(t, "  Take the Laptop A.\n", reply)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, history, gen.history)
	assert.Contains(t, gen.prompt, "Laptop B")
}

func TestBuildReply_NoCandidatesSkipsGenerator(t *testing.T) {
	gen := &recordingGenerator{}
	b := New(gen, 0, zerolog.Nop())
	_, err := b.BuildReply(context.Background(), "q", nil, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Zero(t, gen.calls)
}

func TestBuildReply_GeneratorFailure(t *testing.T) {
	boom := errors.New("boom")
	b := New(&recordingGenerator{err: boom}, 0, zerolog.Nop())
	_, err := b.BuildReply(context.Background(), "q", candidates(1), nil)
	assert.ErrorIs(t, err, boom)
}
