package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "pending_payment"
	OrderPaid           OrderStatus = "paid"
	OrderProcessing     OrderStatus = "processing"
	OrderShipped        OrderStatus = "shipped"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
	OrderRefunded       OrderStatus = "refunded"
)

var ErrOrderNotFound = errors.New("order not found")

// TrackingItem is the frozen descriptor of a cart line inside an order snapshot.
type TrackingItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Unit      string          `json:"unit,omitempty"`
}

// TrackingInfo is captured once at confirmation and immutable afterwards.
type TrackingInfo struct {
	Shipping ShippingDetails `json:"shipping"`
	Items    []TrackingItem  `json:"items"`
}

type Order struct {
	ID             string
	IdempotencyKey string
	BuyerID        string
	SellerID       string
	SellerName     string
	ProductID      string // empty when the order spans multiple products
	Quantity       int
	TotalPrice     decimal.Decimal
	Status         OrderStatus
	TrackingInfo   TrackingInfo
	CreatedAt      time.Time
}
