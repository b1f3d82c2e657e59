package handler

import (
	"net/http"

	"papalote/internal/checkout"
	"papalote/internal/model"

	"github.com/rs/zerolog"
)

// CheckoutHandler validates checkout forms ahead of order creation.
type CheckoutHandler struct {
	validator *checkout.Validator
	logger    zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(validator *checkout.Validator, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		validator: validator,
		logger:    logger.With().Str("handler", "checkout").Logger(),
	}
}

// CheckoutValidResponse is the body returned for an accepted form.
type CheckoutValidResponse struct {
	Valid    bool          `json:"valid"`
	Checkout checkout.Form `json:"checkout"`
}

// Validate handles POST /api/checkout/validate requests.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	normalized, err := h.validator.ValidateForm(form)
	if err != nil {
		writeServiceError(w, r, err, "failed to validate checkout", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutValidResponse{Valid: true, Checkout: normalized})
}
