// Package index embeds the catalog once at startup and ranks products against query vectors.
package index

import (
	"context"
	"errors"
	"fmt"

	"recommender/internal/catalog"
	"recommender/internal/domain"
	"recommender/internal/vectorstore"
)

// ErrEmptyCatalog is returned by Build when there is nothing to index.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Index pairs each catalog product with its embedding. It is read-only once built.
type Index struct {
	products []domain.Product
	store    vectorstore.Storage
	dim      int
}

// Build normalizes every product and embeds the whole catalog in a single document-role
// request. Any failure leaves no index behind.
func Build(ctx context.Context, emb domain.Embedder, products []domain.Product, store vectorstore.Storage) (*Index, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	texts := catalog.NormalizeAll(products)
	vectors, err := emb.Embed(ctx, texts, domain.EmbedRoleDocument)
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}
	if len(vectors) != len(products) {
		return nil, fmt.Errorf("embed catalog: got %d vectors for %d products", len(vectors), len(products))
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("embed catalog: empty vector")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embed catalog: product %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	if err := store.Init(dim); err != nil {
		return nil, err
	}
	if err := store.Clear(); err != nil {
		return nil, err
	}
	if err := store.Upsert(vectors); err != nil {
		_ = store.Clear()
		return nil, err
	}
	if n := store.Len(); n != len(products) {
		return nil, fmt.Errorf("store holds %d vectors for %d products", n, len(products))
	}
	own := make([]domain.Product, len(products))
	copy(own, products)
	return &Index{products: own, store: store, dim: dim}, nil
}

// Len returns the number of indexed products, always equal to the catalog size.
func (ix *Index) Len() int { return len(ix.products) }

// Dimension returns the embedding dimensionality.
func (ix *Index) Dimension() int { return ix.dim }

// Products returns the indexed catalog in catalog order.
func (ix *Index) Products() []domain.Product {
	out := make([]domain.Product, len(ix.products))
	copy(out, ix.products)
	return out
}

// Rank scores every product against the query vector, best first, ties in catalog order.
func (ix *Index) Rank(query []float64) ([]domain.CandidateMatch, error) {
	scored, err := ix.store.Rank(query)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CandidateMatch, len(scored))
	for i, s := range scored {
		out[i] = domain.CandidateMatch{Index: s.Index, Product: ix.products[s.Index], Score: s.Score}
	}
	return out, nil
}
