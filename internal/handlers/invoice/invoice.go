package invoice

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"freshkart_back_end/internal/invoice"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
	"freshkart_back_end/internal/utils"
)

var (
	invoices  = store.NewInvoiceStore()
	orders    = store.NewOrderStore()
	users     = store.NewUserStore()
	addresses = store.NewAddressStore()
	artifacts = invoice.NewMinIOArtifactStore()
	renderer  = invoice.NewRenderer(artifacts)
)

// loadInvoice fetches an invoice and enforces ownership (admins see all).
func loadInvoice(c *gin.Context) (*models.Invoice, bool) {
	inv, err := invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice lookup error"})
		}
		return nil, false
	}

	if role, _ := c.Get("role"); role != "admin" && inv.UserID != c.GetString("user_id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return nil, false
	}
	return inv, true
}

// regenerate re-renders the PDF from freshly loaded order/user/address and
// persists the artifact key.
func regenerate(c *gin.Context, inv *models.Invoice) (string, error) {
	ctx := c.Request.Context()

	order, err := orders.Get(ctx, inv.OrderID.String())
	if err != nil {
		return "", fmt.Errorf("order lookup: %w", err)
	}
	user, err := users.GetByID(ctx, inv.UserID)
	if err != nil {
		return "", fmt.Errorf("user lookup: %w", err)
	}

	var address *models.ShippingAddress
	if order.AddressID != nil {
		if a, err := addresses.Get(ctx, order.AddressID.String()); err == nil {
			address = a
		}
	}

	key, err := renderer.Render(ctx, invoice.RenderInput{
		Invoice: inv,
		Order:   order,
		User:    user,
		Address: address,
	})
	if err != nil {
		return "", err
	}

	if err := invoices.SetArtifactKey(ctx, inv.ID.String(), key); err != nil {
		log.Printf("⚠️ invoice %s artifact key persist error: %v", inv.ID, err)
	}
	inv.ArtifactKey = key
	return key, nil
}

// GET /api/invoice/:id
//
// Streams the stored PDF; when the artifact is missing or empty it is
// regenerated on demand through the same renderer as checkout.
func DownloadInvoice(c *gin.Context) {
	inv, ok := loadInvoice(c)
	if !ok {
		return
	}

	key := inv.ArtifactKey
	if key == "" {
		key = invoice.ArtifactKey(inv.ID.String())
	}

	rc, size, err := artifacts.Open(c.Request.Context(), key)
	if err != nil || size == 0 {
		if rc != nil {
			rc.Close()
		}
		if key, err = regenerate(c, inv); err != nil {
			log.Printf("❌ invoice %s regeneration error: %v", inv.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice generation failed"})
			return
		}
		if rc, size, err = artifacts.Open(c.Request.Context(), key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice generation failed"})
			return
		}
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", key))
	c.DataFromReader(http.StatusOK, size, "application/pdf", rc, nil)
}

// GET /api/invoices
func ListInvoices(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	list, err := invoices.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice lookup error"})
		return
	}
	if list == nil {
		list = []models.Invoice{}
	}

	c.JSON(http.StatusOK, gin.H{"invoices": list})
}

// POST /api/invoice/:id/send
//
// Emails the invoice PDF to the invoice's owner, regenerating it first if
// needed.
func SendInvoice(c *gin.Context) {
	inv, ok := loadInvoice(c)
	if !ok {
		return
	}

	key := inv.ArtifactKey
	if key == "" {
		key = invoice.ArtifactKey(inv.ID.String())
	}

	rc, size, err := artifacts.Open(c.Request.Context(), key)
	if err != nil || size == 0 {
		if rc != nil {
			rc.Close()
		}
		if key, err = regenerate(c, inv); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice generation failed"})
			return
		}
		if rc, _, err = artifacts.Open(c.Request.Context(), key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice generation failed"})
			return
		}
	}
	pdf, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice read error"})
		return
	}

	user, err := users.GetByID(c.Request.Context(), inv.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User lookup error"})
		return
	}

	order, err := orders.Get(c.Request.Context(), inv.OrderID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order lookup error"})
		return
	}

	html := utils.OrderConfirmationHTML(*order, user.Name)
	if err := utils.SendInvoiceEmail(user.Email, "Your FreshKart invoice", html, pdf, key); err != nil {
		log.Printf("❌ invoice mail error for %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Mail delivery failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice sent to " + user.Email})
}
