package catalog

import (
	"strconv"
	"strings"

	"recommender/internal/domain"
)

const fieldSeparator = " | "

// Normalize renders the EmbeddingFields projection of a product: the canonical flat text
// that gets embedded. Field order is fixed. Absent fields are left out entirely, except
// price and notes which are always present.
func Normalize(p domain.Product) string {
	parts := make([]string, 0, 8)
	parts = append(parts, "Name: "+p.Name)
	if p.Category != "" {
		parts = append(parts, "Category: "+p.Category)
	}
	parts = append(parts, "Price INR: "+formatPrice(p.Price))
	if p.RAMGB != nil {
		parts = append(parts, "RAM: "+formatNumber(*p.RAMGB)+"GB")
	}
	if p.SSDStorageGB != nil {
		parts = append(parts, "SSD Storage: "+formatNumber(*p.SSDStorageGB)+"GB")
	}
	if p.GPU != "" {
		parts = append(parts, "GPU: "+p.GPU)
	}
	if p.CPU != "" {
		parts = append(parts, "CPU: "+p.CPU)
	}
	parts = append(parts, "Notes: "+p.Notes)
	return strings.Join(parts, fieldSeparator)
}

// NormalizeAll normalizes every product, keeping catalog order.
func NormalizeAll(products []domain.Product) []string {
	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = Normalize(p)
	}
	return texts
}

// Facts is the GroundingFacts projection handed to the text generator.
// Category and CPU are not part of it.
type Facts struct {
	Name         string   `json:"name"`
	Price        *float64 `json:"price,omitempty"`
	RAMGB        *float64 `json:"ram_gb,omitempty"`
	SSDStorageGB *float64 `json:"ssd_storage_gb,omitempty"`
	GPU          string   `json:"gpu,omitempty"`
	Notes        string   `json:"notes"`
}

// GroundingFacts projects a product down to the facts the generator may cite.
func GroundingFacts(p domain.Product) Facts {
	return Facts{
		Name:         p.Name,
		Price:        p.Price,
		RAMGB:        p.RAMGB,
		SSDStorageGB: p.SSDStorageGB,
		GPU:          p.GPU,
		Notes:        p.Notes,
	}
}

func formatPrice(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
