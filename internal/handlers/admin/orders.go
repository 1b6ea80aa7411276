package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
)

var (
	orders   = store.NewOrderStore()
	invoices = store.NewInvoiceStore()
)

// GET /api/admin/orders
func ListAllOrders(c *gin.Context) {
	list, err := orders.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order listing error"})
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

var validOrderStatus = map[string]bool{
	models.OrderProcessing: true,
	models.OrderShipped:    true,
	models.OrderDelivered:  true,
	models.OrderCancelled:  true,
}

var validPaymentStatus = map[string]bool{
	models.PaymentPending: true,
	models.PaymentPaid:    true,
	models.PaymentFailed:  true,
}

// PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	var input struct {
		OrderStatus   string `json:"order_status"`
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx := c.Request.Context()
	order, err := orders.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order lookup error"})
		return
	}

	if input.OrderStatus == "" {
		input.OrderStatus = order.OrderStatus
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = order.PaymentStatus
	}
	if !validOrderStatus[input.OrderStatus] || !validPaymentStatus[input.PaymentStatus] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status value"})
		return
	}

	if err := orders.UpdateStatus(ctx, c.Param("id"), input.OrderStatus, input.PaymentStatus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status update error"})
		return
	}

	// Keep the invoice's payment status in step with the order's.
	if order.InvoiceID != nil && input.PaymentStatus != order.PaymentStatus {
		invStatus := models.InvoiceUnpaid
		switch input.PaymentStatus {
		case models.PaymentPaid:
			invStatus = models.InvoicePaid
		case models.PaymentFailed:
			invStatus = models.InvoiceFailed
		}
		if err := invoices.UpdatePaymentStatus(ctx, order.InvoiceID.String(), invStatus); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice status update error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":       c.Param("id"),
		"order_status":   input.OrderStatus,
		"payment_status": input.PaymentStatus,
	})
}
