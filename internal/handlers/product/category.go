package product

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
)

// GET /api/categories
func GetCategories(c *gin.Context) {
	list, err := categories.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category listing error"})
		return
	}
	if list == nil {
		list = []models.Category{}
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/admin/categories
func CreateCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil || cat.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The 'name' field is required"})
		return
	}

	cat.ID = gocql.TimeUUID()
	now := time.Now()
	cat.CreatedAt = &now

	if err := categories.Insert(c.Request.Context(), &cat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category creation error"})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

// DELETE /api/admin/categories/:id
func DeleteCategory(c *gin.Context) {
	if err := categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category delete error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
