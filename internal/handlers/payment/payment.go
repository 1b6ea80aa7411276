package payment

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"freshkart_back_end/internal/store"
	"freshkart_back_end/internal/utils"
)

var orders = store.NewOrderStore()

// InitStripe sets the API key. Called once at startup.
func InitStripe() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY not set, card payments disabled")
	}
}

// loadOwnOrder fetches an order and checks it belongs to the caller.
func loadOwnOrder(c *gin.Context, orderID string) (ok bool, amount float64) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return false, 0
	}

	order, err := orders.Get(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Order lookup error"})
		}
		return false, 0
	}
	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return false, 0
	}
	return true, order.TotalAmount
}

// POST /api/payment/intent
//
// Creates a Stripe PaymentIntent for an already placed order (card mode).
// Status transitions stay manual; no webhook drives them.
func CreatePaymentIntent(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ok, amount := loadOwnOrder(c, req.OrderID)
	if !ok {
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)), // paise
		Currency: stripe.String("inr"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"user_id":  c.GetString("user_id"),
			"order_id": req.OrderID,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Println("❌ Stripe error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment intent creation failed"})
		return
	}

	log.Printf("💳 PaymentIntent created: %s (Rs. %.2f) for order %s", intent.ID, amount, req.OrderID)

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"paymentId":    intent.ID,
	})
}

// GET /api/payment/upi-qr/:orderId
//
// Returns a PNG QR encoding a upi://pay deep link for the order amount.
func UPIQr(c *gin.Context) {
	orderID := c.Param("orderId")

	ok, amount := loadOwnOrder(c, orderID)
	if !ok {
		return
	}

	png, err := utils.UPIQRPNG(amount, "Order "+orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UPI QR generation failed"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
