package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender/internal/domain"
)

func fullProduct() domain.Product {
	return domain.Product{
		Name:         "Zen Book",
		Category:     "ultrabook",
		Price:        domain.Float(90000),
		RAMGB:        domain.Float(16),
		SSDStorageGB: domain.Float(512),
		GPU:          "RTX 3050",
		CPU:          "i7-12700H",
		Notes:        "OLED display",
	}
}

func TestNormalize_AllFieldsInFixedOrder(t *testing.T) {
	got := Normalize(fullProduct())
	want := "Name: Zen Book | Category: ultrabook | Price INR: 90000 | RAM: 16GB | SSD Storage: 512GB | GPU: RTX 3050 | CPU: i7-12700H | Notes: OLED display"
	assert.Equal(t, want, got)
}

func TestNormalize_Deterministic(t *testing.T) {
	p := fullProduct()
	assert.Equal(t, Normalize(p), Normalize(p))
}

func TestNormalize_OmitsAbsentFields(t *testing.T) {
	p := domain.Product{Name: "Aero X1", Price: domain.Float(50000), RAMGB: domain.Float(8)}
	got := Normalize(p)

	assert.Equal(t, "Name: Aero X1 | Price INR: 50000 | RAM: 8GB | Notes: ", got)
	for _, label := range []string{"Category:", "SSD Storage:", "GPU:", "CPU:"} {
		assert.NotContains(t, got, label)
	}
}

func TestNormalize_PriceAndNotesAlwaysPresent(t *testing.T) {
	got := Normalize(domain.Product{Name: "Bare"})
	assert.Equal(t, "Name: Bare | Price INR: unknown | Notes: ", got)
}

func TestNormalize_ZeroValuesAreKeptWhenSet(t *testing.T) {
	p := domain.Product{Name: "Promo", Price: domain.Float(0), SSDStorageGB: domain.Float(0)}
	got := Normalize(p)
	assert.Contains(t, got, "Price INR: 0")
	assert.Contains(t, got, "SSD Storage: 0GB")
	assert.NotContains(t, got, "RAM:")
}

func TestNormalize_FractionalNumbers(t *testing.T) {
	p := domain.Product{Name: "Odd", Price: domain.Float(49999.5)}
	assert.True(t, strings.Contains(Normalize(p), "Price INR: 49999.5"))
}

func TestNormalizeAll_KeepsCatalogOrder(t *testing.T) {
	products := []domain.Product{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	texts := NormalizeAll(products)
	require.Len(t, texts, 3)
	for i, p := range products {
		assert.True(t, strings.HasPrefix(texts[i], "Name: "+p.Name))
	}
}

func TestGroundingFacts_ExcludesCategoryAndCPU(t *testing.T) {
	facts := GroundingFacts(fullProduct())
	data, err := json.Marshal(facts)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "category")
	assert.NotContains(t, fields, "cpu")
	assert.Equal(t, "Zen Book", fields["name"])
	assert.Equal(t, 90000.0, fields["price"])
	assert.Equal(t, 16.0, fields["ram_gb"])
	assert.Equal(t, 512.0, fields["ssd_storage_gb"])
	assert.Equal(t, "RTX 3050", fields["gpu"])
	assert.Equal(t, "OLED display", fields["notes"])
}
