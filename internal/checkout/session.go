package checkout

import (
	"sync"
	"time"

	"github.com/tradegate/checkout-service/internal/entities"
)

// Session is the client-held checkout state, kept server-side for the
// lifetime of one wizard run. All fields are guarded by mu; the machine
// holds the lock for the whole transition, so a retried submit observes the
// already-advanced state instead of racing the in-flight one.
type Session struct {
	mu sync.Mutex

	ID      string
	BuyerID string
	State   entities.CheckoutState

	// Items is the cart snapshot taken at Start.
	Items []entities.CartItem

	Shipping *entities.ShippingDetails
	Card     *entities.CardDetails

	TransactionID string

	// ProcessingReadyAt gates the processing -> otp edge.
	ProcessingReadyAt time.Time

	OTPAttempts  int
	OTPExpiresAt time.Time

	OrderIDs  []string
	CreatedAt time.Time
}

// View is an immutable snapshot of a session, safe to hand to callers after
// the session lock is released. Card data is reduced to its masked form.
type View struct {
	ID      string
	BuyerID string
	State   entities.CheckoutState

	Items  []entities.CartItem
	Groups []SellerGroup

	Shipping     *entities.ShippingDetails
	CardBrand    entities.CardBrand
	CardLastFour string

	TransactionID     string
	ProcessingReadyAt time.Time

	OTPAttemptsLeft int
	OTPExpiresAt    time.Time

	OrderIDs  []string
	CreatedAt time.Time
}
