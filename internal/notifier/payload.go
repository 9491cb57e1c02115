package notifier

import (
	"github.com/shopspring/decimal"

	"github.com/tradegate/checkout-service/internal/entities"
)

type PayloadType string

const (
	TypeOrder   PayloadType = "order"
	TypePayment PayloadType = "payment"
	TypeMessage PayloadType = "message"
)

// Payload is the relay contract: a discriminated union keyed by Type. Exactly
// one of the data fields is set, matching the discriminator.
type Payload struct {
	Type    PayloadType  `json:"type" validate:"required,oneof=order payment message"`
	Order   *OrderData   `json:"order,omitempty"`
	Payment *PaymentData `json:"payment,omitempty"`
	Message *MessageData `json:"message,omitempty"`
}

type OrderLine struct {
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderData struct {
	OrderIDs   []string                 `json:"order_ids"`
	BuyerID    string                   `json:"buyer_id"`
	Total      decimal.Decimal          `json:"total"`
	Currency   string                   `json:"currency"`
	Lines      []OrderLine              `json:"lines"`
	Shipping   entities.ShippingDetails `json:"shipping"`
	SellerIDs  []string                 `json:"seller_ids"`
	OrderCount int                      `json:"order_count"`
}

type PaymentData struct {
	TransactionID string                   `json:"transaction_id"`
	BuyerID       string                   `json:"buyer_id"`
	Amount        decimal.Decimal          `json:"amount"`
	Currency      string                   `json:"currency"`
	CardBrand     entities.CardBrand       `json:"card_brand"`
	CardLastFour  string                   `json:"card_last_four"`
	Status        string                   `json:"status"`
	Shipping      entities.ShippingDetails `json:"shipping"`
}

type MessageData struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
