package entities

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrBelowMOQ         = errors.New("quantity is below minimum order quantity")
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartItem struct {
	ID         string
	ProductID  string
	SellerID   string
	SellerName string
	Title      string
	Image      string
	Price      decimal.Decimal
	Quantity   int
	MOQ        int
	Unit       string
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
