package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradegate/checkout-service/internal/entities"
	"github.com/tradegate/checkout-service/internal/notifier"
	"github.com/tradegate/checkout-service/pkg/trm"
)

type TransactionRepo interface {
	// CreateTransaction is idempotent per session: a second insert for the
	// same session id is a no-op.
	CreateTransaction(ctx context.Context, tx entities.PaymentTransaction) error
	GetTransactionBySession(ctx context.Context, sessionID string) (entities.PaymentTransaction, error)
	MarkOTPVerified(ctx context.Context, id string) error
	MarkConfirmed(ctx context.Context, id, orderID string) error
}

type OrderRepo interface {
	// CreateOrder is idempotent per idempotency key and returns the id of
	// the persisted row, which may belong to an earlier attempt.
	CreateOrder(ctx context.Context, order entities.Order) (string, error)
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n entities.Notification) error
}

type Cart interface {
	Items(ctx context.Context, buyerID string) ([]entities.CartItem, error)
	Clear(ctx context.Context, buyerID string) error
}

type Notifier interface {
	Dispatch(ctx context.Context, p notifier.Payload)
}

type SessionStore interface {
	Get(id string) (*Session, bool)
	Set(id string, s *Session)
}

// Settings is read once at construction, mirroring the storefront reading
// its checkout settings at mount.
type Settings struct {
	OTPEnabled      bool
	OTPLength       int
	OTPExpiry       time.Duration
	OTPMaxAttempts  int
	ProcessingDelay time.Duration
	StoreTimeout    time.Duration
	Currency        string
}

// Machine drives a session through
// shipping -> payment -> processing -> otp -> review -> confirmed.
// Store writes happen inside the transition that needs them; a failed write
// leaves the session in its prior state so the same action can be retried.
type Machine struct {
	logger    *slog.Logger
	sessions  SessionStore
	txRepo    TransactionRepo
	orderRepo OrderRepo
	notifRepo NotificationRepo
	txManager trm.Manager
	cart      Cart
	notifier  Notifier
	settings  Settings
	now       func() time.Time
}

func NewMachine(
	logger *slog.Logger,
	sessions SessionStore,
	txRepo TransactionRepo,
	orderRepo OrderRepo,
	notifRepo NotificationRepo,
	txManager trm.Manager,
	cart Cart,
	notif Notifier,
	settings Settings,
) *Machine {
	if settings.OTPLength <= 0 {
		settings.OTPLength = 6
	}
	if settings.OTPMaxAttempts <= 0 {
		settings.OTPMaxAttempts = 3
	}
	if settings.OTPExpiry <= 0 {
		settings.OTPExpiry = 2 * time.Minute
	}
	if settings.StoreTimeout <= 0 {
		settings.StoreTimeout = 10 * time.Second
	}
	if settings.Currency == "" {
		settings.Currency = "USD"
	}
	return &Machine{
		logger:    logger.With(slog.String("service", "checkout")),
		sessions:  sessions,
		txRepo:    txRepo,
		orderRepo: orderRepo,
		notifRepo: notifRepo,
		txManager: txManager,
		cart:      cart,
		notifier:  notif,
		settings:  settings,
		now:       time.Now,
	}
}

// WithClock replaces the machine's clock.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

func (m *Machine) Settings() Settings { return m.settings }

// Start snapshots the buyer's cart into a fresh session in the shipping state.
func (m *Machine) Start(ctx context.Context, buyerID string) (View, error) {
	rctx, cancel := m.storeCtx(ctx)
	defer cancel()

	items, err := m.cart.Items(rctx, buyerID)
	if err != nil {
		return View{}, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(items) == 0 {
		return View{}, entities.ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity < it.MOQ {
			return View{}, fmt.Errorf("%w: %s", entities.ErrBelowMOQ, it.ProductID)
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		BuyerID:   buyerID,
		State:     entities.StateShipping,
		Items:     items,
		CreatedAt: m.now(),
	}
	m.sessions.Set(s.ID, s)

	m.logger.Info("checkout started",
		slog.String("session_id", s.ID),
		slog.String("buyer_id", buyerID),
		slog.Int("items", len(items)),
	)
	return m.view(s), nil
}

// Get returns the session, advancing the processing timer if it elapsed.
func (m *Machine) Get(ctx context.Context, sessionID string) (View, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return View{}, entities.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := m.advanceProcessing(ctx, s); err != nil {
		m.logger.Warn("failed to advance processing session", slog.Any("error", err), slog.String("session_id", s.ID))
	}
	return m.view(s), nil
}

// SubmitShipping captures the immutable shipping snapshot and moves to payment.
func (m *Machine) SubmitShipping(ctx context.Context, sessionID string, details entities.ShippingDetails) (View, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return View{}, entities.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != entities.StateShipping {
		return View{}, entities.TransitionError(s.State, entities.StatePayment)
	}

	s.Shipping = &details
	s.State = entities.StatePayment
	return m.view(s), nil
}

// SubmitPayment creates the payment transaction and enters the processing
// delay. The transaction insert is keyed by session id, so a retried submit
// reuses the existing row instead of creating a duplicate.
func (m *Machine) SubmitPayment(ctx context.Context, sessionID string, card entities.CardDetails) (View, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return View{}, entities.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != entities.StatePayment {
		return View{}, entities.TransitionError(s.State, entities.StateProcessing)
	}
	if s.Shipping == nil {
		return View{}, entities.ErrShippingRequired
	}

	brand := DetectBrand(card.CardNumber)
	lastFour := LastFour(card.CardNumber)
	amount := entities.CartTotal(s.Items)
	groups := GroupBySeller(s.Items)

	if s.TransactionID == "" {
		s.TransactionID = uuid.NewString()
	}
	tx := entities.PaymentTransaction{
		ID:           s.TransactionID,
		SessionID:    s.ID,
		UserID:       s.BuyerID,
		Amount:       amount,
		Currency:     m.settings.Currency,
		CardLastFour: lastFour,
		CardBrand:    brand,
		Status:       entities.TransactionPendingOTP,
		Metadata: map[string]string{
			"items":   strconv.Itoa(len(s.Items)),
			"sellers": strconv.Itoa(len(groups)),
		},
	}

	wctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.txRepo.CreateTransaction(wctx, tx); err != nil {
		return View{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.Card = &card
	s.State = entities.StateProcessing
	s.ProcessingReadyAt = m.now().Add(m.settings.ProcessingDelay)

	m.notifier.Dispatch(ctx, notifier.Payload{
		Type: notifier.TypePayment,
		Payment: &notifier.PaymentData{
			TransactionID: tx.ID,
			BuyerID:       s.BuyerID,
			Amount:        amount,
			Currency:      tx.Currency,
			CardBrand:     brand,
			CardLastFour:  lastFour,
			Status:        string(tx.Status),
			Shipping:      *s.Shipping,
		},
	})

	m.logger.Info("payment submitted",
		slog.String("session_id", s.ID),
		slog.String("transaction_id", tx.ID),
		slog.String("brand", string(brand)),
	)
	return m.view(s), nil
}

// advanceProcessing moves processing -> otp once the delay elapsed. With OTP
// disabled the transaction is verified immediately and the session
// fast-forwards to review. Caller must hold s.mu.
func (m *Machine) advanceProcessing(ctx context.Context, s *Session) error {
	if s.State != entities.StateProcessing || m.now().Before(s.ProcessingReadyAt) {
		return nil
	}

	if !m.settings.OTPEnabled {
		wctx, cancel := m.storeCtx(ctx)
		defer cancel()
		if err := m.txRepo.MarkOTPVerified(wctx, s.TransactionID); err != nil {
			return fmt.Errorf("failed to verify transaction: %w", err)
		}
		s.State = entities.StateReview
		return nil
	}

	s.State = entities.StateOTP
	s.OTPAttempts = 0
	s.OTPExpiresAt = m.now().Add(m.settings.OTPExpiry)
	return nil
}

// SubmitOTP checks the candidate code against the configured length policy.
// This mirrors the storefront's simulated verification: there is no
// server-issued secret behind the code.
func (m *Machine) SubmitOTP(ctx context.Context, sessionID, code string) (View, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return View{}, entities.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := m.advanceProcessing(ctx, s); err != nil {
		return View{}, err
	}
	if s.State == entities.StateProcessing {
		return View{}, entities.ErrProcessingPending
	}
	if s.State != entities.StateOTP {
		return View{}, entities.TransitionError(s.State, entities.StateReview)
	}

	if s.OTPAttempts >= m.settings.OTPMaxAttempts {
		return View{}, entities.ErrOTPAttemptsExceeded
	}
	if m.now().After(s.OTPExpiresAt) {
		return View{}, entities.ErrOTPExpired
	}
	if len(code) != m.settings.OTPLength {
		s.OTPAttempts++
		if s.OTPAttempts >= m.settings.OTPMaxAttempts {
			return View{}, entities.ErrOTPAttemptsExceeded
		}
		return View{}, entities.ErrInvalidOTP
	}

	wctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.txRepo.MarkOTPVerified(wctx, s.TransactionID); err != nil {
		return View{}, fmt.Errorf("failed to verify transaction: %w", err)
	}

	s.State = entities.StateReview

	m.notifier.Dispatch(ctx, notifier.Payload{
		Type: notifier.TypeMessage,
		Message: &notifier.MessageData{
			UserID: s.BuyerID,
			Title:  "OTP verified",
			Body:   fmt.Sprintf("Code %s accepted for transaction %s", code, s.TransactionID),
		},
	})
	return m.view(s), nil
}

// ResendOTP resets the attempt counter and restarts the expiry countdown.
func (m *Machine) ResendOTP(ctx context.Context, sessionID string) (View, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return View{}, entities.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := m.advanceProcessing(ctx, s); err != nil {
		return View{}, err
	}
	if s.State != entities.StateOTP {
		return View{}, entities.TransitionError(s.State, entities.StateOTP)
	}

	s.OTPAttempts = 0
	s.OTPExpiresAt = m.now().Add(m.settings.OTPExpiry)

	m.notifier.Dispatch(ctx, notifier.Payload{
		Type: notifier.TypeMessage,
		Message: &notifier.MessageData{
			UserID: s.BuyerID,
			Title:  "OTP resent",
			Body:   fmt.Sprintf("A new code was issued for transaction %s", s.TransactionID),
		},
	})
	return m.view(s), nil
}

// Confirm fans the cart out into one order per seller group, marks the
// transaction confirmed and clears the cart. Orders are inserted one by one
// with a per-group idempotency key: a partial failure leaves already created
// orders persisted and the session in review, and a retry resumes without
// duplicating them.
func (m *Machine) Confirm(ctx context.Context, sessionID string) (View, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return View{}, entities.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != entities.StateReview {
		return View{}, entities.TransitionError(s.State, entities.StateConfirmed)
	}
	if s.Shipping == nil {
		return View{}, entities.ErrShippingRequired
	}
	if s.Card == nil {
		return View{}, entities.ErrCardRequired
	}

	wctx, cancel := m.storeCtx(ctx)
	defer cancel()

	tx, err := m.txRepo.GetTransactionBySession(wctx, s.ID)
	if err != nil {
		return View{}, fmt.Errorf("failed to load transaction: %w", err)
	}
	if tx.Status != entities.TransactionOTPVerified {
		return View{}, entities.ErrOTPNotVerified
	}

	groups := GroupBySeller(s.Items)
	orderIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		order := m.buildOrder(s, g)
		id, err := m.orderRepo.CreateOrder(wctx, order)
		if err != nil {
			// Orders created so far stay persisted; the transaction keeps
			// its otp_verified status and the session stays in review.
			return View{}, fmt.Errorf("failed to create order for seller %s: %w", g.SellerID, err)
		}
		orderIDs = append(orderIDs, id)
	}

	total := entities.CartTotal(s.Items)
	notification := entities.Notification{
		ID:      uuid.NewString(),
		UserID:  s.BuyerID,
		Type:    entities.NotificationOrder,
		Title:   "Order confirmed",
		Message: fmt.Sprintf("%d order(s) placed for a total of %s %s", len(orderIDs), total.StringFixed(2), m.settings.Currency),
		Data: map[string]string{
			"transaction_id": tx.ID,
			"order_ids":      strings.Join(orderIDs, ","),
		},
	}

	err = m.txManager.Do(wctx, func(ctx context.Context) error {
		if err := m.txRepo.MarkConfirmed(ctx, tx.ID, orderIDs[0]); err != nil {
			return fmt.Errorf("failed to confirm transaction: %w", err)
		}
		if err := m.notifRepo.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	s.OrderIDs = orderIDs
	s.State = entities.StateConfirmed
	s.Card = nil

	m.notifier.Dispatch(ctx, notifier.Payload{
		Type:  notifier.TypeOrder,
		Order: m.orderPayload(s, groups, orderIDs, total),
	})

	if err := m.cart.Clear(wctx, s.BuyerID); err != nil {
		// Best effort: the orders and the confirmed transaction are the
		// source of truth, a stale cart only affects the next visit.
		m.logger.Error("failed to clear cart", slog.Any("error", err), slog.String("buyer_id", s.BuyerID))
	}

	m.logger.Info("checkout confirmed",
		slog.String("session_id", s.ID),
		slog.String("transaction_id", tx.ID),
		slog.Int("orders", len(orderIDs)),
	)
	return m.view(s), nil
}

// Back walks one navigation-only edge backwards. Confirmation is terminal.
func (m *Machine) Back(ctx context.Context, sessionID string) (View, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return View{}, entities.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.State.Prev()
	if !ok {
		return View{}, fmt.Errorf("%w: no backward edge from %s", entities.ErrInvalidTransition, s.State)
	}
	s.State = prev
	return m.view(s), nil
}

// view builds a snapshot of s. Caller must hold s.mu (or own s exclusively).
func (m *Machine) view(s *Session) View {
	v := View{
		ID:                s.ID,
		BuyerID:           s.BuyerID,
		State:             s.State,
		Items:             append([]entities.CartItem(nil), s.Items...),
		Groups:            GroupBySeller(s.Items),
		TransactionID:     s.TransactionID,
		ProcessingReadyAt: s.ProcessingReadyAt,
		OTPExpiresAt:      s.OTPExpiresAt,
		OrderIDs:          append([]string(nil), s.OrderIDs...),
		CreatedAt:         s.CreatedAt,
	}
	v.OTPAttemptsLeft = m.settings.OTPMaxAttempts - s.OTPAttempts
	if v.OTPAttemptsLeft < 0 {
		v.OTPAttemptsLeft = 0
	}
	if s.Shipping != nil {
		shipping := *s.Shipping
		v.Shipping = &shipping
	}
	if s.Card != nil {
		v.CardBrand = DetectBrand(s.Card.CardNumber)
		v.CardLastFour = LastFour(s.Card.CardNumber)
	}
	return v
}

func (m *Machine) buildOrder(s *Session, g SellerGroup) entities.Order {
	quantity := 0
	productID := ""
	tracking := make([]entities.TrackingItem, 0, len(g.Items))
	for _, it := range g.Items {
		quantity += it.Quantity
		tracking = append(tracking, entities.TrackingItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
		})
	}
	if len(g.Items) == 1 {
		productID = g.Items[0].ProductID
	}

	return entities.Order{
		ID:             uuid.NewString(),
		IdempotencyKey: s.ID + ":" + g.SellerID,
		BuyerID:        s.BuyerID,
		SellerID:       g.SellerID,
		SellerName:     g.SellerName,
		ProductID:      productID,
		Quantity:       quantity,
		TotalPrice:     g.Subtotal,
		Status:         entities.OrderPaid,
		TrackingInfo: entities.TrackingInfo{
			Shipping: *s.Shipping,
			Items:    tracking,
		},
	}
}

func (m *Machine) orderPayload(s *Session, groups []SellerGroup, orderIDs []string, total decimal.Decimal) *notifier.OrderData {
	sellerIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		sellerIDs = append(sellerIDs, g.SellerID)
	}
	lines := make([]notifier.OrderLine, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, notifier.OrderLine{
			Title:    it.Title,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return &notifier.OrderData{
		OrderIDs:   orderIDs,
		BuyerID:    s.BuyerID,
		Total:      total,
		Currency:   m.settings.Currency,
		Lines:      lines,
		Shipping:   *s.Shipping,
		SellerIDs:  sellerIDs,
		OrderCount: len(orderIDs),
	}
}

func (m *Machine) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.settings.StoreTimeout)
}
