package coupon

import (
	"context"
	"strings"
	"time"
)

// Type is the kind of discount a coupon grants.
type Type string

// Supported coupon types.
const (
	TypePercentage   Type = "percentage"
	TypeFreeShipping Type = "free_shipping"
	TypeFixed        Type = "fixed"
)

// Coupon is a catalog entry. Value is a percentage (0-100) for
// TypePercentage and an amount in MXN otherwise.
type Coupon struct {
	Code        string     `json:"code"`
	Type        Type       `json:"type"`
	Value       float64    `json:"value"`
	Description string     `json:"description"`
	MinPurchase *float64   `json:"minPurchase,omitempty"`
	MaxDiscount *float64   `json:"maxDiscount,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// AppliedCoupon is a coupon together with the discount it produced for one
// checkout.
type AppliedCoupon struct {
	Coupon
	DiscountAmount float64 `json:"discountAmount"`
}

// ValidationResult is the outcome of validating a code. Error holds a
// message meant for the customer.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Coupon *Coupon `json:"coupon,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ApplyResult is the outcome of applying a code to a checkout.
type ApplyResult struct {
	Success       bool           `json:"success"`
	AppliedCoupon *AppliedCoupon `json:"appliedCoupon,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Engine validates coupon codes and computes their discounts.
type Engine interface {
	// Validate checks a code against the catalog, its expiry, and the
	// coupon's minimum purchase.
	Validate(code string, subtotal float64) ValidationResult

	// Apply validates a code and computes its discount.
	Apply(code string, subtotal, shippingCost float64) ApplyResult

	// Coupons returns the catalog in definition order.
	Coupons() []Coupon
}

// Loader defines the interface for loading coupon catalogs.
type Loader interface {
	// Load reads a YAML coupon catalog (optionally gzipped) and returns it.
	Load(ctx context.Context, path string) (*Catalog, error)
}

// NormalizeCode trims and upper-cases a code the way customers' input is
// matched against the catalog.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
