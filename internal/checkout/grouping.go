package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/tradegate/checkout-service/internal/entities"
)

type SellerGroup struct {
	SellerID   string
	SellerName string
	Items      []entities.CartItem
	Subtotal   decimal.Decimal
}

// GroupBySeller partitions cart items by seller, preserving first-seen seller
// order. Used for the order summary and for the per-seller order fan-out.
func GroupBySeller(items []entities.CartItem) []SellerGroup {
	index := make(map[string]int, len(items))
	groups := make([]SellerGroup, 0, len(items))

	for _, item := range items {
		i, ok := index[item.SellerID]
		if !ok {
			index[item.SellerID] = len(groups)
			groups = append(groups, SellerGroup{
				SellerID:   item.SellerID,
				SellerName: item.SellerName,
				Subtotal:   decimal.Zero,
			})
			i = len(groups) - 1
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Subtotal = groups[i].Subtotal.Add(item.LineTotal())
	}

	return groups
}
