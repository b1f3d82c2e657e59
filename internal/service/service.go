package service

import (
	"context"

	"papalote/internal/coupon"
	"papalote/internal/model"
	"papalote/internal/search"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Search ranks the catalogue against a free-text query.
	Search(ctx context.Context, query string, opts search.Options) ([]search.Result, error)

	// Suggestions completes a partial query from catalogue terms.
	Suggestions(ctx context.Context, query string, limit int) ([]string, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder validates the checkout, prices the items, applies the
	// coupon if any, and persists the order.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items and product details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// CouponService exposes the coupon catalog to the API.
type CouponService interface {
	// List returns every coupon with its customer-facing description.
	List() []CouponView

	// Validate checks a code against a subtotal.
	Validate(code string, subtotal float64) coupon.ValidationResult

	// Apply validates a code and computes its discount.
	Apply(code string, subtotal, shippingCost float64) coupon.ApplyResult
}

// SearchHistory keeps each session's recent searches. It is implemented by
// *search.History.
type SearchHistory interface {
	Get(ctx context.Context, session string) []search.Entry
	Add(ctx context.Context, session, query string) []search.Entry
	Remove(ctx context.Context, session, query string) []search.Entry
	Clear(ctx context.Context, session string)
}

var _ SearchHistory = (*search.History)(nil)
