package checkout_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradegate/checkout-service/internal/checkout"
	"github.com/tradegate/checkout-service/internal/entities"
)

func item(product, seller string, price string, qty int) entities.CartItem {
	return entities.CartItem{
		ID:         product + "-" + seller,
		ProductID:  product,
		SellerID:   seller,
		SellerName: "Seller " + seller,
		Title:      "Product " + product,
		Price:      decimal.RequireFromString(price),
		Quantity:   qty,
		MOQ:        1,
	}
}

func TestGroupBySeller(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		assert.Empty(t, checkout.GroupBySeller(nil))
	})

	t.Run("preserves first seen seller order", func(t *testing.T) {
		items := []entities.CartItem{
			item("p1", "s2", "10.00", 1),
			item("p2", "s1", "5.00", 2),
			item("p3", "s2", "2.50", 4),
		}

		groups := checkout.GroupBySeller(items)
		require.Len(t, groups, 2)

		assert.Equal(t, "s2", groups[0].SellerID)
		assert.Equal(t, "s1", groups[1].SellerID)
		assert.Len(t, groups[0].Items, 2)
		assert.Len(t, groups[1].Items, 1)
	})

	t.Run("subtotals sum line totals", func(t *testing.T) {
		items := []entities.CartItem{
			item("p1", "s1", "19.99", 3),
			item("p2", "s1", "0.01", 1),
			item("p3", "s2", "100.00", 2),
		}

		groups := checkout.GroupBySeller(items)
		require.Len(t, groups, 2)

		assert.True(t, groups[0].Subtotal.Equal(decimal.RequireFromString("59.98")))
		assert.True(t, groups[1].Subtotal.Equal(decimal.RequireFromString("200.00")))
	})

	t.Run("group subtotals add up to cart total", func(t *testing.T) {
		items := []entities.CartItem{
			item("p1", "s1", "1.10", 1),
			item("p2", "s2", "2.20", 2),
			item("p3", "s3", "3.30", 3),
			item("p4", "s1", "4.40", 4),
		}

		sum := decimal.Zero
		for _, g := range checkout.GroupBySeller(items) {
			sum = sum.Add(g.Subtotal)
		}
		assert.True(t, sum.Equal(entities.CartTotal(items)))
	})
}
