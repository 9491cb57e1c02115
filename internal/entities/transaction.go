package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionPendingOTP  TransactionStatus = "pending_otp"
	TransactionOTPVerified TransactionStatus = "otp_verified"
	TransactionConfirmed   TransactionStatus = "confirmed"
	TransactionFailed      TransactionStatus = "failed"
	TransactionRefunded    TransactionStatus = "refunded"
)

var ErrTransactionNotFound = errors.New("payment transaction not found")

type CardBrand string

const (
	BrandVisa       CardBrand = "Visa"
	BrandMastercard CardBrand = "Mastercard"
	BrandAmex       CardBrand = "American Express"
	BrandDiscover   CardBrand = "Discover"
	BrandUnknown    CardBrand = "Card"
)

type PaymentTransaction struct {
	ID           string
	SessionID    string
	UserID       string
	Amount       decimal.Decimal
	Currency     string
	CardLastFour string
	CardBrand    CardBrand
	Status       TransactionStatus
	OTPVerified  bool
	OrderID      string // set once the first order exists
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
