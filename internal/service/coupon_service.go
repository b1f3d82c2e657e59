package service

import (
	"papalote/internal/coupon"
	"papalote/internal/metrics"

	"github.com/rs/zerolog"
)

// CouponView is a coupon as listed to customers.
type CouponView struct {
	coupon.Coupon
	DisplayText string `json:"displayText"`
}

// couponService implements CouponService.
type couponService struct {
	engine  coupon.Engine
	known   map[string]bool
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewCouponService creates a coupon service. m may be nil.
func NewCouponService(engine coupon.Engine, m *metrics.Metrics, logger zerolog.Logger) CouponService {
	known := make(map[string]bool)
	for _, c := range engine.Coupons() {
		known[coupon.NormalizeCode(c.Code)] = true
	}

	return &couponService{
		engine:  engine,
		known:   known,
		metrics: m,
		logger:  logger.With().Str("service", "coupon").Logger(),
	}
}

// List returns every coupon with its customer-facing description.
func (s *couponService) List() []CouponView {
	coupons := s.engine.Coupons()
	views := make([]CouponView, len(coupons))
	for i, c := range coupons {
		views[i] = CouponView{Coupon: c, DisplayText: coupon.DisplayText(c)}
	}
	return views
}

// Validate checks a code against a subtotal.
func (s *couponService) Validate(code string, subtotal float64) coupon.ValidationResult {
	return s.engine.Validate(code, subtotal)
}

// Apply validates a code, computes its discount, and records the outcome.
func (s *couponService) Apply(code string, subtotal, shippingCost float64) coupon.ApplyResult {
	res := s.engine.Apply(code, subtotal, shippingCost)

	normalized := coupon.NormalizeCode(code)
	s.metrics.CouponApplied(normalized, s.known[normalized], res.Success)

	if res.Success {
		s.logger.Info().
			Str("coupon_code", normalized).
			Float64("discount", res.AppliedCoupon.DiscountAmount).
			Msg("coupon applied")
	} else {
		s.logger.Info().
			Str("coupon_code", normalized).
			Str("reason", res.Error).
			Msg("coupon rejected")
	}

	return res
}
