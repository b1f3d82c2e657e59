package handler

import (
	"net/http"

	"papalote/internal/model"
	"papalote/internal/service"

	"github.com/rs/zerolog"
)

// CouponHandler serves the coupon catalog and checks codes for the cart.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// CouponListResponse is the body of GET /api/coupons.
type CouponListResponse struct {
	Coupons []service.CouponView `json:"coupons"`
}

// ValidateCouponRequest is the body of POST /api/coupons/validate.
type ValidateCouponRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// ApplyCouponRequest is the body of POST /api/coupons/apply.
type ApplyCouponRequest struct {
	Code         string  `json:"code"`
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
}

// List handles GET /api/coupons requests.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CouponListResponse{Coupons: h.service.List()})
}

// Validate handles POST /api/coupons/validate requests. A rejected code is
// a normal outcome and answers 200 with valid=false.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Subtotal < 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "subtotal cannot be negative", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Validate(req.Code, req.Subtotal))
}

// Apply handles POST /api/coupons/apply requests.
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Subtotal < 0 || req.ShippingCost < 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "amounts cannot be negative", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Apply(req.Code, req.Subtotal, req.ShippingCost))
}
