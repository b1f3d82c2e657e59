package model

import (
	"time"

	"papalote/internal/checkout"

	"github.com/google/uuid"
)

// Order limits. MaxOrderAmount is the largest value the orders table's
// DECIMAL(12,2) columns hold.
const (
	MaxItemQuantity = 99
	MaxOrderAmount  = 9_999_999_999.99
)

// Order represents a customer order.
type Order struct {
	ID              uuid.UUID                `json:"id" db:"id"`
	CouponCode      *string                  `json:"couponCode,omitempty" db:"coupon_code"`
	PaymentMethod   checkout.PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	ShippingAddress checkout.ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	GiftWrap        bool                     `json:"giftWrap" db:"gift_wrap"`
	GiftMessage     *string                  `json:"giftMessage,omitempty" db:"gift_message"`
	Notes           *string                  `json:"notes,omitempty" db:"notes"`
	Subtotal        float64                  `json:"subtotal" db:"subtotal"`
	ShippingCost    float64                  `json:"shippingCost" db:"shipping_cost"`
	Discount        float64                  `json:"discount" db:"discount"`
	Total           float64                  `json:"total" db:"total"`
	CreatedAt       time.Time                `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time                `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CouponCode *string            `json:"couponCode,omitempty"`
	Items      []OrderItemRequest `json:"items"`
	Checkout   checkout.Form      `json:"checkout"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID              uuid.UUID                `json:"id"`
	CouponCode      *string                  `json:"couponCode,omitempty"`
	PaymentMethod   checkout.PaymentMethod   `json:"paymentMethod"`
	ShippingAddress checkout.ShippingAddress `json:"shippingAddress"`
	GiftWrap        bool                     `json:"giftWrap"`
	GiftMessage     *string                  `json:"giftMessage,omitempty"`
	Notes           *string                  `json:"notes,omitempty"`
	Subtotal        float64                  `json:"subtotal"`
	ShippingCost    float64                  `json:"shippingCost"`
	Discount        float64                  `json:"discount"`
	Total           float64                  `json:"total"`
	Items           []OrderItem              `json:"items"`
	Products        []Product                `json:"products"`
	CreatedAt       time.Time                `json:"createdAt"`
}
