package coupon

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// maxCatalogBytes bounds how much of a catalog file is read.
const maxCatalogBytes = 4 << 20

// fileLoader implements Loader for catalogs on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a YAML catalog file. Paths ending in ".gz" are decompressed.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Catalog, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon catalog")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon catalog")
		return nil, fmt.Errorf("failed to open coupon catalog %s: %w", filePath, err)
	}
	defer file.Close()

	catalog, err := readCatalog(file, strings.HasSuffix(filePath, ".gz"))
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read coupon catalog")
		return nil, fmt.Errorf("failed to read coupon catalog %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", catalog.Size()).
		Msg("coupon catalog loaded successfully")

	return catalog.withSource("file://" + filePath), nil
}

// readCatalog parses a catalog from r, gunzipping it first when gzipped is
// set.
func readCatalog(r io.Reader, gzipped bool) (*Catalog, error) {
	if gzipped {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	data, err := io.ReadAll(io.LimitReader(r, maxCatalogBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxCatalogBytes {
		return nil, fmt.Errorf("catalog exceeds %d bytes", maxCatalogBytes)
	}

	return ParseCatalog(data)
}
