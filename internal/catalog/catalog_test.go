package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender/internal/domain"
)

func TestLoad_ParsesOptionalFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	data := `[
		{"name": "Aero X1", "price": 50000, "ram_gb": 8},
		{"name": "Zen Book", "category": "ultrabook", "price": 90000, "ram_gb": 16, "gpu": "RTX 3050", "ssd_storage_gb": 0}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	products, err := Load(path)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Aero X1", products[0].Name)
	assert.Nil(t, products[0].SSDStorageGB)
	assert.Empty(t, products[0].Notes)

	require.NotNil(t, products[1].SSDStorageGB)
	assert.Equal(t, 0.0, *products[1].SSDStorageGB)
	assert.Equal(t, "RTX 3050", products[1].GPU)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Current product catalog: 1 laptop. Ask away!", Summary(make([]domain.Product, 1)))
	assert.Equal(t, "Current product catalog: 3 laptops. Ask away!", Summary(make([]domain.Product, 3)))
}
