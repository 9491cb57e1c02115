package checkout_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tradegate/checkout-service/internal/checkout"
	"github.com/tradegate/checkout-service/internal/entities"
	"github.com/tradegate/checkout-service/internal/notifier"
)

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) CreateTransaction(ctx context.Context, tx entities.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepo) GetTransactionBySession(ctx context.Context, sessionID string) (entities.PaymentTransaction, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(entities.PaymentTransaction), args.Error(1)
}

func (m *mockTransactionRepo) MarkOTPVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTransactionRepo) MarkConfirmed(ctx context.Context, id, orderID string) error {
	args := m.Called(ctx, id, orderID)
	return args.Error(0)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order entities.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) CreateNotification(ctx context.Context, n entities.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type mockCart struct {
	mock.Mock
}

func (m *mockCart) Items(ctx context.Context, buyerID string) ([]entities.CartItem, error) {
	args := m.Called(ctx, buyerID)
	if items := args.Get(0); items != nil {
		return items.([]entities.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCart) Clear(ctx context.Context, buyerID string) error {
	args := m.Called(ctx, buyerID)
	return args.Error(0)
}

// nopTxManager runs the callback without a database.
type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memStore is a plain map session store.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*checkout.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*checkout.Session)}
}

func (s *memStore) Get(id string) (*checkout.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *memStore) Set(id string, sess *checkout.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

// recordingNotifier captures dispatched payloads synchronously.
type recordingNotifier struct {
	mu       sync.Mutex
	payloads []notifier.Payload
}

func (n *recordingNotifier) Dispatch(_ context.Context, p notifier.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, p)
}

func (n *recordingNotifier) byType(t notifier.PayloadType) []notifier.Payload {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifier.Payload
	for _, p := range n.payloads {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
