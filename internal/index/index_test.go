package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender/internal/domain"
	"recommender/internal/vectorstore/memory"
)

type stubEmbedder struct {
	vectors [][]float64
	err     error
	calls   int
	texts   []string
	role    domain.EmbedRole
}

func (s *stubEmbedder) Model() string { return "stub" }

func (s *stubEmbedder) Embed(_ context.Context, texts []string, role domain.EmbedRole) ([][]float64, error) {
	s.calls++
	s.texts = texts
	s.role = role
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func products(names ...string) []domain.Product {
	out := make([]domain.Product, len(names))
	for i, n := range names {
		out[i] = domain.Product{Name: n, Price: domain.Float(float64(50000 + i*1000))}
	}
	return out
}

func TestBuild_EmbedsCatalogOnceAsDocuments(t *testing.T) {
	emb := &stubEmbedder{vectors: [][]float64{{1, 0}, {0, 1}, {1, 1}}}
	ix, err := Build(context.Background(), emb, products("A", "B", "C"), memory.NewStorage())
	require.NoError(t, err)

	assert.Equal(t, 1, emb.calls)
	assert.Equal(t, domain.EmbedRoleDocument, emb.role)
	require.Len(t, emb.texts, 3)
	assert.Contains(t, emb.texts[0], "Name: A")
	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, 2, ix.Dimension())
}

func TestBuild_EmptyCatalog(t *testing.T) {
	emb := &stubEmbedder{}
	_, err := Build(context.Background(), emb, nil, memory.NewStorage())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	assert.Zero(t, emb.calls)
}

func TestBuild_Failures(t *testing.T) {
	boom := errors.New("boom")
	cases := map[string]*stubEmbedder{
		"embed error":    {err: boom},
		"count mismatch": {vectors: [][]float64{{1, 0}}},
		"ragged":         {vectors: [][]float64{{1, 0}, {1}}},
		"empty vectors":  {vectors: [][]float64{{}, {}}},
	}
	for name, emb := range cases {
		t.Run(name, func(t *testing.T) {
			ix, err := Build(context.Background(), emb, products("A", "B"), memory.NewStorage())
			assert.Error(t, err)
			assert.Nil(t, ix)
		})
	}
	_, err := Build(context.Background(), &stubEmbedder{err: boom}, products("A"), memory.NewStorage())
	assert.ErrorIs(t, err, boom)
}

func TestRank_OrdersByCosineWithStableTies(t *testing.T) {
	emb := &stubEmbedder{vectors: [][]float64{{0, 1}, {1, 0}, {1, 0}, {1, 1}}}
	ix, err := Build(context.Background(), emb, products("A", "B", "C", "D"), memory.NewStorage())
	require.NoError(t, err)

	got, err := ix.Rank([]float64{1, 0})
	require.NoError(t, err)
	require.Len(t, got, 4)

	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Product.Name
	}
	assert.Equal(t, []string{"B", "C", "D", "A"}, names)
	assert.Equal(t, 1, got[0].Index)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.InDelta(t, 0.7071, got[2].Score, 1e-3)
	assert.InDelta(t, 0.0, got[3].Score, 1e-9)
}

func TestRank_DimensionMismatch(t *testing.T) {
	emb := &stubEmbedder{vectors: [][]float64{{1, 0}}}
	ix, err := Build(context.Background(), emb, products("A"), memory.NewStorage())
	require.NoError(t, err)
	_, err = ix.Rank([]float64{1, 0, 0})
	assert.Error(t, err)
}

func TestProducts_ReturnsCopy(t *testing.T) {
	emb := &stubEmbedder{vectors: [][]float64{{1}}}
	ix, err := Build(context.Background(), emb, products("A"), memory.NewStorage())
	require.NoError(t, err)
	p := ix.Products()
	p[0].Name = "changed"
	assert.Equal(t, "A", ix.Products()[0].Name)
}
