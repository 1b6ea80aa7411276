package cache

import (
	"context"
	"encoding/json"
	"time"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
	"freshkart_back_end/internal/store"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
	// ProductListTTL covers the whole-catalog listing; admin mutations
	// invalidate it early.
	ProductListTTL = 1 * time.Hour
)

const productListKey = "products:all"

// GetUser reads a user through the Redis cache, falling back to the store and
// filling the cache on a miss.
func GetUser(ctx context.Context, users store.UserStore, userID string) (*models.User, error) {
	key := "user:" + userID

	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if jsonData, err := json.Marshal(user); err == nil {
		database.Redis.Set(ctx, key, jsonData, UserCacheTTL)
	}
	return user, nil
}

func InvalidateUser(userID string) {
	database.Redis.Del(context.Background(), "user:"+userID)
}

// GetProductNames resolves product ids to names, Redis first, store for the
// misses. Unresolvable ids are simply absent from the result.
func GetProductNames(ctx context.Context, products store.ProductStore, productIDs []string) map[string]string {
	result := make(map[string]string)

	for _, productID := range productIDs {
		key := "product_name:" + productID
		if name, err := database.Redis.Get(ctx, key).Result(); err == nil {
			result[productID] = name
			continue
		}

		p, err := products.Get(ctx, productID)
		if err != nil {
			continue
		}
		result[productID] = p.Name
		database.Redis.Set(ctx, key, p.Name, ProductCacheTTL)
	}

	return result
}

func InvalidateProduct(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID, "product_name:"+productID)
	database.Redis.Del(ctx, productListKey)
}

// GetProductList returns the cached listing response body, if any.
func GetProductList(ctx context.Context) (string, bool) {
	data, err := database.Redis.Get(ctx, productListKey).Result()
	if err != nil || data == "" {
		return "", false
	}
	return data, true
}

func SetProductList(ctx context.Context, body []byte) {
	database.Redis.Set(ctx, productListKey, body, ProductListTTL)
}

func InvalidateProductList(ctx context.Context) {
	database.Redis.Del(ctx, productListKey)
}
