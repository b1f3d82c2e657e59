// Package checkout validates the shipping, payment, and gift fields of the
// checkout form.
package checkout

import (
	"errors"
	"strings"
)

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod string

// Accepted payment methods.
const (
	PaymentCard        PaymentMethod = "card"
	PaymentMercadoPago PaymentMethod = "mercadopago"
	PaymentOXXO        PaymentMethod = "oxxo"
	PaymentSPEI        PaymentMethod = "spei"
	PaymentPayPal      PaymentMethod = "paypal"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{
	PaymentCard,
	PaymentMercadoPago,
	PaymentOXXO,
	PaymentSPEI,
	PaymentPayPal,
}

// ShippingAddress is a Mexican delivery address.
type ShippingAddress struct {
	FirstName      string `json:"firstName" validate:"required,min=2,max=50,mx_name"`
	LastName       string `json:"lastName" validate:"required,min=2,max=50,mx_name"`
	Email          string `json:"email" validate:"required,max=100,email"`
	Phone          string `json:"phone" validate:"required,min=10,max=15,mx_phone"`
	Street         string `json:"street" validate:"required,min=5,max=100"`
	ExteriorNumber string `json:"exteriorNumber" validate:"required,max=10"`
	InteriorNumber string `json:"interiorNumber,omitempty" validate:"omitempty,max=10"`
	Neighborhood   string `json:"neighborhood" validate:"required,min=2,max=100"`
	City           string `json:"city" validate:"required,min=2,max=100,mx_name"`
	State          string `json:"state" validate:"required,mx_state"`
	PostalCode     string `json:"postalCode" validate:"required,mx_postal_code"`
	References     string `json:"references,omitempty" validate:"omitempty,max=200"`
}

// GiftOptions holds the gift wrapping choice of an order.
type GiftOptions struct {
	GiftWrap    bool   `json:"giftWrap"`
	GiftMessage string `json:"giftMessage,omitempty" validate:"required_if=GiftWrap true,max=200"`
}

// Form is the complete checkout form submitted with an order.
type Form struct {
	Shipping      ShippingAddress `json:"shipping"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" validate:"required,oneof=card mercadopago oxxo spei paypal"`
	AcceptTerms   bool            `json:"acceptTerms" validate:"eq=true"`
	GiftWrap      bool            `json:"giftWrap"`
	GiftMessage   string          `json:"giftMessage,omitempty" validate:"required_if=GiftWrap true,max=200"`
	Notes         string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Gift returns the gift options carried by the form.
func (f Form) Gift() GiftOptions {
	return GiftOptions{GiftWrap: f.GiftWrap, GiftMessage: f.GiftMessage}
}

type paymentSelection struct {
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=card mercadopago oxxo spei paypal"`
}

// FieldError is a validation failure attached to a field path such as
// "shipping.postalCode".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationErrors is the list of field failures of one validation pass.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Path + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ByPath groups the messages by field path, keeping their order.
func (v ValidationErrors) ByPath() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, fe := range v {
		out[fe.Path] = append(out[fe.Path], fe.Message)
	}
	return out
}

// FieldMessage returns the first message reported for path, if err carries
// validation errors for it.
func FieldMessage(err error, path string) (string, bool) {
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		return "", false
	}
	for _, fe := range verrs {
		if fe.Path == path {
			return fe.Message, true
		}
	}
	return "", false
}
