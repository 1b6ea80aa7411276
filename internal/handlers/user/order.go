package user

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freshkart_back_end/internal/checkout"
	"freshkart_back_end/internal/invoice"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
	"freshkart_back_end/internal/utils"
)

var (
	orders      = store.NewOrderStore()
	invoices    = store.NewInvoiceStore()
	artifacts   = invoice.NewMinIOArtifactStore()
	checkoutSvc = checkout.NewService(products, carts, orders, invoices, users, addresses,
		invoice.NewRenderer(artifacts))
)

// POST /api/orders/place
func PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input checkout.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	result, err := checkoutSvc.PlaceOrder(c.Request.Context(), userID, input)
	if err != nil {
		var stockErr *checkout.InsufficientStockError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, checkout.ErrInvalidPayMode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported payment mode"})
		case errors.Is(err, checkout.ErrProductNotFound):
			c.JSON(http.StatusConflict, gin.H{"error": "A cart item no longer exists"})
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address not found"})
		default:
			log.Printf("❌ checkout error for user %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Order placement failed"})
		}
		return
	}

	go sendOrderConfirmation(*result)

	c.JSON(http.StatusCreated, result)
}

// sendOrderConfirmation emails the customer, attaching the PDF when the
// render succeeded. Best-effort: a mail failure never surfaces to the client.
func sendOrderConfirmation(result checkout.PlaceOrderResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := users.GetByID(ctx, result.Order.UserID)
	if err != nil {
		log.Printf("⚠️ confirmation mail skipped, user lookup error: %v", err)
		return
	}

	var pdf []byte
	if result.Invoice.ArtifactKey != "" {
		if rc, _, err := artifacts.Open(ctx, result.Invoice.ArtifactKey); err == nil {
			pdf, _ = io.ReadAll(rc)
			rc.Close()
		}
	}

	html := utils.OrderConfirmationHTML(*result.Order, user.Name)
	if err := utils.SendInvoiceEmail(user.Email, "Your FreshKart order is confirmed", html,
		pdf, result.Invoice.ArtifactKey); err != nil {
		log.Printf("⚠️ confirmation mail error for %s: %v", user.Email, err)
	}
}

// GET /api/orders
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	list, err := orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order lookup error"})
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GET /api/orders/:id
func GetOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	order, err := orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order lookup error"})
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
