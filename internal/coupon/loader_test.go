package coupon

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
coupons:
  - code: test10
    type: percentage
    value: 10
    description: Prueba
  - code: FIJO50
    type: fixed
    value: 50
    minPurchase: 100
    description: Cincuenta
`

// createTestCatalogFile writes a catalog file, gzipping it when the name
// ends in ".gz".
func createTestCatalogFile(t *testing.T, filename, content string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	if filepath.Ext(filename) == ".gz" {
		gzipWriter := gzip.NewWriter(file)
		_, err = gzipWriter.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gzipWriter.Close())
		return filePath
	}

	_, err = file.WriteString(content)
	require.NoError(t, err)

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	tests := []struct {
		name     string
		filename string
	}{
		{name: "Plain YAML", filename: "coupons.yaml"},
		{name: "Gzipped YAML", filename: "coupons.yaml.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := createTestCatalogFile(t, tt.filename, testCatalogYAML)

			catalog, err := loader.Load(context.Background(), filePath)

			require.NoError(t, err)
			require.NotNil(t, catalog)
			assert.Equal(t, "file://"+filePath, catalog.Source())
			assert.Equal(t, 2, catalog.Size())

			c, ok := catalog.Lookup("TEST10")
			require.True(t, ok)
			assert.Equal(t, TypePercentage, c.Type)
		})
	}
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	catalog, err := loader.Load(context.Background(), "/nonexistent/coupons.yaml")

	require.Error(t, err)
	assert.Nil(t, catalog)
	assert.Contains(t, err.Error(), "failed to open coupon catalog")
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := filepath.Join(t.TempDir(), "invalid.yaml.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("not a gzip file"), 0o644))

	catalog, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, catalog)
	assert.Contains(t, err.Error(), "failed to create gzip reader")
}

func TestFileLoader_Load_InvalidCatalog(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogFile(t, "bad.yaml", `
coupons:
  - code: MAL
    type: bogus
    value: 1
`)

	catalog, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, catalog)
	assert.Contains(t, err.Error(), "unknown coupon type")
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestCatalogFile(t, "coupons.yaml", testCatalogYAML)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	catalog, err := loader.Load(ctx, filePath)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, catalog)
}
