package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freshkart_back_end/internal/models"
)

func TestSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Basmati Rice 5kg", Price: 450, Quantity: 2},
		{Name: "Toor Dal 1kg", Price: 120, Quantity: 1},
	}
	assert.Equal(t, 1020.0, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestTax(t *testing.T) {
	assert.Equal(t, 180.0, Tax(1000))
	assert.Equal(t, 0.0, Tax(0))
}

func TestShippingFee(t *testing.T) {
	assert.Equal(t, 50.0, ShippingFee(400))
	assert.Equal(t, 0.0, ShippingFee(600))
	// The boundary itself is not free shipping.
	assert.Equal(t, 50.0, ShippingFee(499))
}
