package service

// ShippingPolicy prices delivery with a flat rate that is waived from a
// subtotal threshold.
type ShippingPolicy struct {
	FlatRate      float64
	FreeThreshold float64
}

// DefaultShippingPolicy charges 150 MXN below a 1500 MXN subtotal.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{FlatRate: 150, FreeThreshold: 1500}
}

// Cost returns the shipping cost for subtotal. A zero threshold disables
// free shipping.
func (p ShippingPolicy) Cost(subtotal float64) float64 {
	if p.FreeThreshold > 0 && subtotal >= p.FreeThreshold {
		return 0
	}
	return p.FlatRate
}
