package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
)

var addresses = store.NewAddressStore()

// POST /api/addresses
func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var a models.ShippingAddress
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.ID = gocql.TimeUUID()
	a.UserID = userID
	now := time.Now()
	a.CreatedAt = &now
	if a.Country == "" {
		a.Country = "India"
	}

	if err := addresses.Create(c.Request.Context(), &a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Address creation error"})
		return
	}

	c.JSON(http.StatusCreated, a)
}

// GET /api/addresses
func ListAddresses(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	list, err := addresses.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Address lookup error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": list})
}

// PUT /api/addresses/:id
func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	existing, err := addresses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Address lookup error"})
		return
	}
	if existing.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	var a models.ShippingAddress
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.ID = existing.ID
	a.UserID = userID
	a.CreatedAt = existing.CreatedAt

	if err := addresses.Update(c.Request.Context(), &a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Address update error"})
		return
	}

	c.JSON(http.StatusOK, a)
}

// DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := addresses.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Address delete error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
