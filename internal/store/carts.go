package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/models"
)

// cartTTL keeps abandoned carts around for a month before Redis expires them.
const cartTTL = 30 * 24 * time.Hour

type CartStore interface {
	// Get returns the cart items for a user; a missing key is an empty cart,
	// never an error. Carts are created lazily on the first Save.
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Clear(ctx context.Context, userID string) error
}

func NewCartStore() CartStore {
	return &cartStore{}
}

type cartStore struct{}

func cartKey(userID string) string { return "cart:" + userID }

func (s *cartStore) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || (err == nil && data == "") {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *cartStore) Save(ctx context.Context, userID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := database.Redis.Set(ctx, cartKey(userID), data, cartTTL).Err(); err != nil {
		return err
	}
	// Wake up any live cart-sync subscribers.
	database.Redis.Publish(ctx, cartKey(userID), "updated")
	return nil
}

func (s *cartStore) Clear(ctx context.Context, userID string) error {
	if err := database.Redis.Del(ctx, cartKey(userID)).Err(); err != nil {
		return err
	}
	database.Redis.Publish(ctx, cartKey(userID), "cleared")
	return nil
}
