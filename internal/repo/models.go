package repo

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradegate/checkout-service/internal/entities"
)

type PaymentTransaction struct {
	ID           string          `db:"transaction_id"`
	SessionID    string          `db:"session_id"`
	UserID       string          `db:"user_id"`
	Amount       decimal.Decimal `db:"amount"`
	Currency     string          `db:"currency"`
	CardLastFour string          `db:"card_last_four"`
	CardBrand    string          `db:"card_brand"`
	Status       string          `db:"status"`
	OTPVerified  bool            `db:"otp_verified"`
	OrderID      sql.NullString  `db:"order_id"`
	Metadata     []byte          `db:"metadata"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

type Order struct {
	ID             string          `db:"order_id"`
	IdempotencyKey string          `db:"idempotency_key"`
	BuyerID        string          `db:"buyer_id"`
	SellerID       string          `db:"seller_id"`
	SellerName     string          `db:"seller_name"`
	ProductID      sql.NullString  `db:"product_id"`
	Quantity       int             `db:"quantity"`
	TotalPrice     decimal.Decimal `db:"total_price"`
	Status         string          `db:"status"`
	TrackingInfo   []byte          `db:"tracking_info"`
	CreatedAt      time.Time       `db:"created_at"`
}

type Notification struct {
	ID        string    `db:"notification_id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
}

func TransactionToEntity(t PaymentTransaction) (entities.PaymentTransaction, error) {
	var metadata map[string]string
	if len(t.Metadata) > 0 {
		if err := json.Unmarshal(t.Metadata, &metadata); err != nil {
			return entities.PaymentTransaction{}, err
		}
	}
	return entities.PaymentTransaction{
		ID:           t.ID,
		SessionID:    t.SessionID,
		UserID:       t.UserID,
		Amount:       t.Amount,
		Currency:     t.Currency,
		CardLastFour: t.CardLastFour,
		CardBrand:    entities.CardBrand(t.CardBrand),
		Status:       entities.TransactionStatus(t.Status),
		OTPVerified:  t.OTPVerified,
		OrderID:      nullStringToString(t.OrderID),
		Metadata:     metadata,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}, nil
}

func OrderToEntity(o Order) (entities.Order, error) {
	var tracking entities.TrackingInfo
	if len(o.TrackingInfo) > 0 {
		if err := json.Unmarshal(o.TrackingInfo, &tracking); err != nil {
			return entities.Order{}, err
		}
	}
	return entities.Order{
		ID:             o.ID,
		IdempotencyKey: o.IdempotencyKey,
		BuyerID:        o.BuyerID,
		SellerID:       o.SellerID,
		SellerName:     o.SellerName,
		ProductID:      nullStringToString(o.ProductID),
		Quantity:       o.Quantity,
		TotalPrice:     o.TotalPrice,
		Status:         entities.OrderStatus(o.Status),
		TrackingInfo:   tracking,
		CreatedAt:      o.CreatedAt,
	}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
