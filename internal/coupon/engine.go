package coupon

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Customer-facing rejection messages.
const (
	MsgEmptyCode   = "Ingresa un código de cupón"
	MsgInvalidCode = "El cupón no es válido o ha expirado"
	MsgExpired     = "Este cupón ha expirado"
)

var locale = language.MustParse("es-MX")

// engine implements Engine over a read-only catalog.
type engine struct {
	catalog *Catalog
	now     func() time.Time
	logger  zerolog.Logger
}

// Option configures an Engine.
type Option func(*engine)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(e *engine) {
		e.now = now
	}
}

// NewEngine creates a coupon engine over catalog.
func NewEngine(catalog *Catalog, logger zerolog.Logger, opts ...Option) Engine {
	e := &engine{
		catalog: catalog,
		now:     time.Now,
		logger:  logger.With().Str("component", "coupon-engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger.Info().
		Int("coupons", catalog.Size()).
		Str("source", catalog.Source()).
		Msg("coupon engine initialised")

	return e
}

// Validate checks a code against the catalog, its expiry, and the coupon's
// minimum purchase.
func (e *engine) Validate(code string, subtotal float64) ValidationResult {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return ValidationResult{Error: MsgEmptyCode}
	}

	c, ok := e.catalog.Lookup(normalized)
	if !ok {
		e.logger.Debug().Str("coupon_code", normalized).Msg("coupon not in catalog")
		return ValidationResult{Error: MsgInvalidCode}
	}

	if c.ExpiresAt != nil && e.now().After(*c.ExpiresAt) {
		e.logger.Debug().
			Str("coupon_code", normalized).
			Time("expires_at", *c.ExpiresAt).
			Msg("coupon expired")
		return ValidationResult{Error: MsgExpired}
	}

	if c.MinPurchase != nil && subtotal < *c.MinPurchase {
		e.logger.Debug().
			Str("coupon_code", normalized).
			Float64("subtotal", subtotal).
			Float64("min_purchase", *c.MinPurchase).
			Msg("subtotal below coupon minimum")
		return ValidationResult{Error: MinPurchaseMessage(*c.MinPurchase)}
	}

	return ValidationResult{Valid: true, Coupon: &c}
}

// Apply validates a code and computes its discount.
func (e *engine) Apply(code string, subtotal, shippingCost float64) ApplyResult {
	res := e.Validate(code, subtotal)
	if !res.Valid {
		return ApplyResult{Error: res.Error}
	}

	discount := CalculateDiscount(*res.Coupon, subtotal, shippingCost)

	e.logger.Debug().
		Str("coupon_code", res.Coupon.Code).
		Float64("subtotal", subtotal).
		Float64("discount", discount).
		Msg("coupon applied")

	return ApplyResult{
		Success: true,
		AppliedCoupon: &AppliedCoupon{
			Coupon:         *res.Coupon,
			DiscountAmount: discount,
		},
	}
}

// Coupons returns the catalog in definition order.
func (e *engine) Coupons() []Coupon {
	return e.catalog.Coupons()
}

// CalculateDiscount computes the discount c grants on an order.
//   - percentage: subtotal*value/100, capped at MaxDiscount, rounded to cents
//   - free shipping: the shipping cost as given
//   - fixed: value, never more than the subtotal
func CalculateDiscount(c Coupon, subtotal, shippingCost float64) float64 {
	switch c.Type {
	case TypePercentage:
		d := decimal.NewFromFloat(subtotal).
			Mul(decimal.NewFromFloat(c.Value)).
			Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil {
			d = decimal.Min(d, decimal.NewFromFloat(*c.MaxDiscount))
		}
		amount, _ := d.Round(2).Float64()
		return amount
	case TypeFreeShipping:
		return shippingCost
	case TypeFixed:
		return math.Min(c.Value, subtotal)
	default:
		return 0
	}
}

// DisplayText describes a coupon's benefit for the storefront.
func DisplayText(c Coupon) string {
	switch c.Type {
	case TypePercentage:
		return strconv.FormatFloat(c.Value, 'f', -1, 64) + "% de descuento"
	case TypeFreeShipping:
		return "Envío gratis"
	case TypeFixed:
		return "$" + FormatAmount(c.Value) + " MXN de descuento"
	default:
		return c.Description
	}
}

// MinPurchaseMessage tells the customer the minimum subtotal a coupon needs.
func MinPurchaseMessage(minPurchase float64) string {
	return fmt.Sprintf("Este cupón requiere una compra mínima de $%s MXN", FormatAmount(minPurchase))
}

// FormatAmount formats an MXN amount with es-MX digit grouping, dropping the
// cents when there are none.
func FormatAmount(v float64) string {
	p := message.NewPrinter(locale)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return p.Sprintf("%d", int64(v))
	}
	return p.Sprintf("%.2f", v)
}
