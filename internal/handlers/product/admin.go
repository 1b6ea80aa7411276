package product

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"freshkart_back_end/internal/cache"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/services"
	"freshkart_back_end/internal/store"
)

// POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.CategoryID == (gocql.UUID{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The 'category_id' field is required"})
		return
	}
	if p.Price < 0 || p.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock must be non-negative"})
		return
	}

	ctx := c.Request.Context()

	if _, err := categories.Get(ctx, p.CategoryID.String()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	if err := products.Insert(ctx, &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product creation error: " + err.Error()})
		return
	}

	// Search index and listing cache catch up asynchronously.
	go services.IndexProduct(p)
	cache.InvalidateProductList(ctx)

	c.JSON(http.StatusCreated, p)
}

// PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	existing, err := products.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product lookup error"})
		return
	}

	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if p.CategoryID == (gocql.UUID{}) {
		p.CategoryID = existing.CategoryID
	}

	if err := products.Update(ctx, &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product update error"})
		return
	}

	go services.IndexProduct(p)
	cache.InvalidateProduct(p.ID.String())

	c.JSON(http.StatusOK, p)
}

// DELETE /api/admin/products/:id
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := products.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product delete error"})
		return
	}

	go services.DeleteProductIndex(id)
	cache.InvalidateProduct(id)

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// POST /api/admin/products/:id/image
func UploadProductImage(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := products.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product lookup error"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'image' file"})
		return
	}

	url, err := services.UploadProductImage(ctx, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload error"})
		return
	}

	p.ImageURLs = append(p.ImageURLs, url)
	if err := products.Update(ctx, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product update error"})
		return
	}

	go services.IndexProduct(*p)
	cache.InvalidateProduct(p.ID.String())

	c.JSON(http.StatusOK, gin.H{"image_url": url, "image_urls": p.ImageURLs})
}
