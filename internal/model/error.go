package model

import "papalote/internal/checkout"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string                `json:"error"`
	Message       string                `json:"message"`
	Fields        []checkout.FieldError `json:"fields,omitempty"`
	CorrelationID string                `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodeInvalidCoupon    = "INVALID_COUPON"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeEmptyOrder       = "EMPTY_ORDER"
	ErrCodeOrderTooLarge    = "ORDER_TOO_LARGE"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Uno o más productos no existen")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "El pedido no existe")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "La cantidad debe estar entre 1 y 99")
	ErrEmptyOrder      = NewDomainError(ErrCodeEmptyOrder, "El pedido debe contener al menos un producto")
	ErrMissingProduct  = NewDomainError(ErrCodeMissingField, "Cada producto del pedido requiere un identificador")
	ErrOrderTooLarge   = NewDomainError(ErrCodeOrderTooLarge, "El importe del pedido excede el máximo permitido")
)
