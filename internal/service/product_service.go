package service

import (
	"context"
	"fmt"
	"strings"

	"papalote/internal/metrics"
	"papalote/internal/model"
	"papalote/internal/repository"
	"papalote/internal/search"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewProductService creates a new product service. m may be nil.
func NewProductService(productRepo repository.ProductRepository, m *metrics.Metrics, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		metrics:     m,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products with pagination. The limit is clamped to 1..100
// and defaults to 10.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (s *productService) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to get products by IDs")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(products)).
		Msg("retrieved products by IDs")

	return products, nil
}

// Search ranks the whole catalogue against query.
func (s *productService) Search(ctx context.Context, query string, opts search.Options) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return []search.Result{}, nil
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to load catalogue for search")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	results := search.Products(products, query, opts)
	if s.metrics != nil {
		s.metrics.SearchQueries.Inc()
	}

	s.logger.Debug().
		Str("query", query).
		Int("limit", opts.Limit).
		Float64("min_score", opts.MinScore).
		Int("results", len(results)).
		Msg("searched products")

	return results, nil
}

// Suggestions completes a partial query from catalogue names, categories,
// makers, states, and materials.
func (s *productService) Suggestions(ctx context.Context, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return []string{}, nil
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to load catalogue for suggestions")
		return nil, fmt.Errorf("failed to suggest products: %w", err)
	}

	return search.Suggestions(products, query, limit), nil
}
