package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"freshkart_back_end/internal/cache"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/services"
	"freshkart_back_end/internal/store"
)

var (
	products   = store.NewProductStore()
	categories = store.NewCategoryStore()
)

// GET /api/products
func GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	// Whole-catalog listing is hot and changes rarely; serve the cached JSON
	// body when present.
	if body, ok := cache.GetProductList(ctx); ok {
		c.Data(http.StatusOK, "application/json", []byte(body))
		return
	}

	list, err := products.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product listing error"})
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	if data, err := json.Marshal(list); err == nil {
		cache.SetProductList(ctx, data)
	}

	c.JSON(http.StatusOK, list)
}

// GET /api/products/:id
func GetProduct(c *gin.Context) {
	p, err := products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product lookup error"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GET /api/products/search?q=
//
// Elasticsearch first; when the index is unavailable or empty the catalog is
// scanned and filtered in memory so search keeps working without ES.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'q' parameter"})
		return
	}

	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		for i := range results {
			if urls, ok := results[i]["image_urls"].([]interface{}); ok {
				signed := []string{}
				for _, u := range urls {
					if str, ok := u.(string); ok && str != "" {
						if signedURL, err := services.GenerateSignedURL(context.Background(), str, 24*time.Hour); err == nil {
							signed = append(signed, signedURL)
						}
					}
				}
				results[i]["image_urls"] = signed
			}
		}
		c.JSON(http.StatusOK, results)
		return
	}

	list, err := products.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search error"})
		return
	}

	matched := []models.Product{}
	for _, p := range list {
		if containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query) || containsTagsIgnoreCase(p.Tags, query) {
			matched = append(matched, p)
		}
	}

	c.JSON(http.StatusOK, matched)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsTagsIgnoreCase(tags []string, query string) bool {
	for _, tag := range tags {
		if containsIgnoreCase(tag, query) {
			return true
		}
	}
	return false
}

// GET /api/categories/:id/products
func GetProductsByCategory(c *gin.Context) {
	list, err := products.ListByCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product listing error"})
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	c.JSON(http.StatusOK, list)
}
