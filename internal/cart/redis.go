package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tradegate/checkout-service/internal/entities"
)

// storedItem is the redis serialization of a cart line.
type storedItem struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	SellerID   string          `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Title      string          `json:"title"`
	Image      string          `json:"image,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	MOQ        int             `json:"moq"`
	Unit       string          `json:"unit,omitempty"`
}

// RedisCart keeps each buyer's cart as one JSON document, so line order is
// preserved across reads and the seller grouping stays stable.
type RedisCart struct {
	logger *slog.Logger
	rdb    *redis.Client
	ttl    time.Duration
}

func NewRedisCart(logger *slog.Logger, rdb *redis.Client, ttl time.Duration) *RedisCart {
	return &RedisCart{
		logger: logger.With(slog.String("service", "cart")),
		rdb:    rdb,
		ttl:    ttl,
	}
}

func cartKey(buyerID string) string {
	return fmt.Sprintf("cart:%s", buyerID)
}

func (c *RedisCart) Items(ctx context.Context, buyerID string) ([]entities.CartItem, error) {
	data, err := c.rdb.Get(ctx, cartKey(buyerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []entities.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var stored []storedItem
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	items := make([]entities.CartItem, 0, len(stored))
	for _, s := range stored {
		items = append(items, entities.CartItem{
			ID:         s.ID,
			ProductID:  s.ProductID,
			SellerID:   s.SellerID,
			SellerName: s.SellerName,
			Title:      s.Title,
			Image:      s.Image,
			Price:      s.Price,
			Quantity:   s.Quantity,
			MOQ:        s.MOQ,
			Unit:       s.Unit,
		})
	}
	return items, nil
}

func (c *RedisCart) AddItem(ctx context.Context, buyerID string, item entities.CartItem) ([]entities.CartItem, error) {
	items, err := c.Items(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	items = addItem(items, item)
	if err := c.save(ctx, buyerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCart) UpdateQuantity(ctx context.Context, buyerID, itemID string, quantity int) ([]entities.CartItem, error) {
	items, err := c.Items(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	items, err = updateQuantity(items, itemID, quantity)
	if err != nil {
		return nil, err
	}
	if err := c.save(ctx, buyerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCart) RemoveItem(ctx context.Context, buyerID, itemID string) ([]entities.CartItem, error) {
	items, err := c.Items(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	items, err = removeItem(items, itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, c.Clear(ctx, buyerID)
	}
	if err := c.save(ctx, buyerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCart) Clear(ctx context.Context, buyerID string) error {
	if err := c.rdb.Del(ctx, cartKey(buyerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (c *RedisCart) save(ctx context.Context, buyerID string, items []entities.CartItem) error {
	stored := make([]storedItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, storedItem{
			ID:         it.ID,
			ProductID:  it.ProductID,
			SellerID:   it.SellerID,
			SellerName: it.SellerName,
			Title:      it.Title,
			Image:      it.Image,
			Price:      it.Price,
			Quantity:   it.Quantity,
			MOQ:        it.MOQ,
			Unit:       it.Unit,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := c.rdb.Set(ctx, cartKey(buyerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
