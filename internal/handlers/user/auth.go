package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freshkart_back_end/internal/cache"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
	"freshkart_back_end/internal/utils"
)

var users = store.NewUserStore()

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Phone    string `json:"phone" binding:"omitempty,len=10,numeric"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := users.GetByEmail(ctx, input.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password hashing error"})
		return
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Phone:    input.Phone,
		Role:     "customer",
		Provider: "local",
	}
	if err := users.Create(ctx, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User creation error"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := users.GetByEmail(ctx, input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := cache.GetUser(ctx, users, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":   user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"phone":    user.Phone,
		"role":     user.Role,
		"provider": user.Provider,
	})
}

// findOrCreateOAuthUser merges a social login into the user table: match by
// provider id first, then by email, else create a fresh customer account.
func findOrCreateOAuthUser(ctx context.Context, provider, providerID, email, name string) (*models.User, error) {
	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		if user.Provider != provider || user.ProviderID != providerID {
			if err := users.UpdateProvider(ctx, user.ID, provider, providerID); err != nil {
				log.Printf("⚠️ provider merge error for %s: %v", email, err)
			} else {
				user.Provider = provider
				user.ProviderID = providerID
				cache.InvalidateUser(user.ID)
			}
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Role:       "customer",
		Provider:   provider,
		ProviderID: providerID,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("🆕 OAuth user created (%s): %s", provider, email)
	return user, nil
}

// redirectWithToken sends the browser back to the storefront with the JWT in
// the query string, refusing origins outside the allow-list.
func redirectWithToken(c *gin.Context, token string) {
	redirectURI := os.Getenv("FRONTEND_URL")
	if redirectURI == "" {
		redirectURI = "http://localhost:5173"
	}

	allowed := strings.Split(os.Getenv("OAUTH_REDIRECT_ORIGINS"), ",")
	allowed = append(allowed, "http://localhost:5173", "http://localhost:3000")
	valid := false
	for _, o := range allowed {
		if o != "" && strings.HasPrefix(redirectURI, o) {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Redirect url not allowed"})
		return
	}

	sep := "?"
	if strings.Contains(redirectURI, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusTemporaryRedirect, redirectURI+sep+"token="+url.QueryEscape(token))
}
