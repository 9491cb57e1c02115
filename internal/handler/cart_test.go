package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tradegate/checkout-service/internal/entities"
	"github.com/tradegate/checkout-service/internal/handler"
)

func newCartRouter(t *testing.T) (*mockCartService, chi.Router) {
	t.Helper()

	svc := new(mockCartService)
	t.Cleanup(func() { svc.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewCartHandler(logger, svc)

	r := chi.NewRouter()
	h.Init(r)
	return svc, r
}

func cartLine(id string, price string, qty int) entities.CartItem {
	return entities.CartItem{
		ID:         id,
		ProductID:  "p-" + id,
		SellerID:   "s1",
		SellerName: "Seller One",
		Title:      "Widget " + id,
		Price:      decimal.RequireFromString(price),
		Quantity:   qty,
		MOQ:        1,
	}
}

func TestCartHandler_GetCart(t *testing.T) {
	svc, r := newCartRouter(t)
	svc.On("Items", mock.Anything, "buyer-1").
		Return([]entities.CartItem{cartLine("i1", "10.00", 2), cartLine("i2", "1.50", 3)}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/cart/buyer-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	res := rr.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.Equal(t, "24.5", resp["total"])
	assert.Equal(t, float64(5), resp["item_count"])
}

func TestCartHandler_AddItem(t *testing.T) {
	validBody := `{
		"product_id":"p1",
		"seller_id":"s1",
		"seller_name":"Seller One",
		"title":"Widget",
		"price":"10.00",
		"quantity":2,
		"moq":1
	}`

	t.Run("success", func(t *testing.T) {
		svc, r := newCartRouter(t)
		svc.On("AddItem", mock.Anything, "buyer-1", mock.Anything).
			Return([]entities.CartItem{cartLine("i1", "10.00", 2)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/cart/buyer-1/items", strings.NewReader(validBody))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, r := newCartRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/cart/buyer-1/items", strings.NewReader(`{"title":"Widget"}`))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, r := newCartRouter(t)
		svc.On("UpdateQuantity", mock.Anything, "buyer-1", "i1", 7).
			Return([]entities.CartItem{cartLine("i1", "10.00", 7)}, nil).Once()

		req := httptest.NewRequest(http.MethodPatch, "/cart/buyer-1/items/i1", strings.NewReader(`{"quantity":7}`))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc, r := newCartRouter(t)
		svc.On("UpdateQuantity", mock.Anything, "buyer-1", "missing", 7).
			Return(nil, entities.ErrCartItemNotFound).Once()

		req := httptest.NewRequest(http.MethodPatch, "/cart/buyer-1/items/missing", strings.NewReader(`{"quantity":7}`))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCartHandler_Clear(t *testing.T) {
	svc, r := newCartRouter(t)
	svc.On("Clear", mock.Anything, "buyer-1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/cart/buyer-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["item_count"])
}
