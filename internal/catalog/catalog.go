// Package catalog loads product records and derives the text projections used for
// embedding and for grounding generated answers.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"recommender/internal/domain"
)

// Load reads a JSON array of products from path.
func Load(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return products, nil
}

// Summary is the one-line banner shown when a session starts.
func Summary(products []domain.Product) string {
	noun := "laptops"
	if len(products) == 1 {
		noun = "laptop"
	}
	return fmt.Sprintf("Current product catalog: %d %s. Ask away!", len(products), noun)
}
