package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tradegate/checkout-service/internal/checkout"
	"github.com/tradegate/checkout-service/internal/entities"
)

type mockCheckoutService struct {
	mock.Mock
}

func (m *mockCheckoutService) Start(ctx context.Context, buyerID string) (checkout.View, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(checkout.View), args.Error(1)
}

func (m *mockCheckoutService) Get(ctx context.Context, sessionID string) (checkout.View, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(checkout.View), args.Error(1)
}

func (m *mockCheckoutService) SubmitShipping(ctx context.Context, sessionID string, details entities.ShippingDetails) (checkout.View, error) {
	args := m.Called(ctx, sessionID, details)
	return args.Get(0).(checkout.View), args.Error(1)
}

func (m *mockCheckoutService) SubmitPayment(ctx context.Context, sessionID string, card entities.CardDetails) (checkout.View, error) {
	args := m.Called(ctx, sessionID, card)
	return args.Get(0).(checkout.View), args.Error(1)
}

func (m *mockCheckoutService) SubmitOTP(ctx context.Context, sessionID, code string) (checkout.View, error) {
	args := m.Called(ctx, sessionID, code)
	return args.Get(0).(checkout.View), args.Error(1)
}

func (m *mockCheckoutService) ResendOTP(ctx context.Context, sessionID string) (checkout.View, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(checkout.View), args.Error(1)
}

func (m *mockCheckoutService) Confirm(ctx context.Context, sessionID string) (checkout.View, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(checkout.View), args.Error(1)
}

func (m *mockCheckoutService) Back(ctx context.Context, sessionID string) (checkout.View, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(checkout.View), args.Error(1)
}

type mockOrderReader struct {
	mock.Mock
}

func (m *mockOrderReader) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderReader) ListOrdersByBuyer(ctx context.Context, buyerID string, limit int) ([]entities.Order, error) {
	args := m.Called(ctx, buyerID, limit)
	if orders := args.Get(0); orders != nil {
		return orders.([]entities.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) Items(ctx context.Context, buyerID string) ([]entities.CartItem, error) {
	args := m.Called(ctx, buyerID)
	if items := args.Get(0); items != nil {
		return items.([]entities.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartService) AddItem(ctx context.Context, buyerID string, item entities.CartItem) ([]entities.CartItem, error) {
	args := m.Called(ctx, buyerID, item)
	if items := args.Get(0); items != nil {
		return items.([]entities.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, buyerID, itemID string, quantity int) ([]entities.CartItem, error) {
	args := m.Called(ctx, buyerID, itemID, quantity)
	if items := args.Get(0); items != nil {
		return items.([]entities.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartService) RemoveItem(ctx context.Context, buyerID, itemID string) ([]entities.CartItem, error) {
	args := m.Called(ctx, buyerID, itemID)
	if items := args.Get(0); items != nil {
		return items.([]entities.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartService) Clear(ctx context.Context, buyerID string) error {
	args := m.Called(ctx, buyerID)
	return args.Error(0)
}
