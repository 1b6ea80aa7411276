package invoice

import "freshkart_back_end/internal/models"

// Tax and shipping figures shown on the invoice summary.
const (
	TaxRate               = 0.18
	FreeShippingThreshold = 499.0
	FlatShippingFee       = 50.0
)

// Subtotal sums price×quantity over the given line items.
func Subtotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Tax is a flat GST-style percentage of the subtotal.
func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}

// ShippingFee is waived above the free-shipping threshold.
func ShippingFee(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}
