package cart

import (
	"github.com/google/uuid"

	"github.com/tradegate/checkout-service/internal/entities"
)

// addItem merges the new line into an existing one for the same product and
// seller, otherwise appends it. Quantity never drops below the line's MOQ.
func addItem(items []entities.CartItem, item entities.CartItem) []entities.CartItem {
	if item.MOQ < 1 {
		item.MOQ = 1
	}
	if item.Quantity < item.MOQ {
		item.Quantity = item.MOQ
	}
	for i, existing := range items {
		if existing.ProductID == item.ProductID && existing.SellerID == item.SellerID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return append(items, item)
}

func updateQuantity(items []entities.CartItem, itemID string, quantity int) ([]entities.CartItem, error) {
	for i, existing := range items {
		if existing.ID == itemID {
			if quantity < existing.MOQ {
				quantity = existing.MOQ
			}
			items[i].Quantity = quantity
			return items, nil
		}
	}
	return nil, entities.ErrCartItemNotFound
}

func removeItem(items []entities.CartItem, itemID string) ([]entities.CartItem, error) {
	for i, existing := range items {
		if existing.ID == itemID {
			return append(items[:i], items[i+1:]...), nil
		}
	}
	return nil, entities.ErrCartItemNotFound
}
