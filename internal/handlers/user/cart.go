package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
)

var (
	carts    = store.NewCartStore()
	products = store.NewProductStore()
)

// GET /api/cart
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	items, err := carts.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart decoding error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// POST /api/cart/add
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	ctx := c.Request.Context()

	// The cart item captures the catalog's current name/price/image; checkout
	// re-reads them anyway, the snapshot is for display.
	product, err := products.Get(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	imageURL := ""
	if len(product.ImageURLs) > 0 {
		imageURL = product.ImageURLs[0]
	}

	items, err := carts.Get(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart decoding error"})
		return
	}

	merged := false
	for i := range items {
		if items[i].ProductID == input.ProductID {
			items[i].Quantity += input.Quantity
			items[i].Name = product.Name
			items[i].Price = product.Price
			items[i].ImageURL = imageURL
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, models.CartItem{
			ProductID: input.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  input.Quantity,
			ImageURL:  imageURL,
		})
	}

	if err := carts.Save(ctx, userID, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart save error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// PUT /api/cart/update
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx := c.Request.Context()
	items, err := carts.Get(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart decoding error"})
		return
	}

	updated := make([]models.CartItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ProductID == input.ProductID {
			found = true
			// Quantity zero removes the line.
			if input.Quantity <= 0 {
				continue
			}
			item.Quantity = input.Quantity
		}
		updated = append(updated, item)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	if err := carts.Save(ctx, userID, updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart save error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": updated})
}

// DELETE /api/cart/:productId
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	productID := c.Param("productId")

	ctx := c.Request.Context()
	items, err := carts.Get(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart decoding error"})
		return
	}

	updated := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			updated = append(updated, item)
		}
	}

	if err := carts.Save(ctx, userID, updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart save error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": updated})
}

// DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := carts.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart clear error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
