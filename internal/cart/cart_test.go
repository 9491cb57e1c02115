package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradegate/checkout-service/internal/entities"
)

func line(product, seller string, qty, moq int) entities.CartItem {
	return entities.CartItem{
		ID:         product + "-" + seller,
		ProductID:  product,
		SellerID:   seller,
		SellerName: "Seller " + seller,
		Title:      "Product " + product,
		Price:      decimal.RequireFromString("10.00"),
		Quantity:   qty,
		MOQ:        moq,
	}
}

func TestAddItem(t *testing.T) {
	t.Run("appends new line with generated id", func(t *testing.T) {
		newLine := line("p1", "s1", 2, 1)
		newLine.ID = ""

		items := addItem(nil, newLine)
		require.Len(t, items, 1)
		assert.NotEmpty(t, items[0].ID)
	})

	t.Run("merges same product and seller", func(t *testing.T) {
		items := []entities.CartItem{line("p1", "s1", 2, 1)}
		items = addItem(items, line("p1", "s1", 3, 1))

		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("same product from another seller stays separate", func(t *testing.T) {
		items := []entities.CartItem{line("p1", "s1", 2, 1)}
		items = addItem(items, line("p1", "s2", 3, 1))
		assert.Len(t, items, 2)
	})

	t.Run("quantity floors at moq", func(t *testing.T) {
		items := addItem(nil, line("p1", "s1", 1, 10))
		require.Len(t, items, 1)
		assert.Equal(t, 10, items[0].Quantity)
	})
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("sets the quantity", func(t *testing.T) {
		items := []entities.CartItem{line("p1", "s1", 2, 1)}
		items, err := updateQuantity(items, "p1-s1", 9)
		require.NoError(t, err)
		assert.Equal(t, 9, items[0].Quantity)
	})

	t.Run("floors at moq", func(t *testing.T) {
		items := []entities.CartItem{line("p1", "s1", 10, 5)}
		items, err := updateQuantity(items, "p1-s1", 1)
		require.NoError(t, err)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := updateQuantity(nil, "missing", 3)
		assert.ErrorIs(t, err, entities.ErrCartItemNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("removes the line", func(t *testing.T) {
		items := []entities.CartItem{line("p1", "s1", 2, 1), line("p2", "s1", 1, 1)}
		items, err := removeItem(items, "p1-s1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "p2", items[0].ProductID)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := removeItem(nil, "missing")
		assert.ErrorIs(t, err, entities.ErrCartItemNotFound)
	})
}
