package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradegate/checkout-service/internal/entities"
	"github.com/tradegate/checkout-service/pkg/utils"
)

type CartService interface {
	Items(ctx context.Context, buyerID string) ([]entities.CartItem, error)
	AddItem(ctx context.Context, buyerID string, item entities.CartItem) ([]entities.CartItem, error)
	UpdateQuantity(ctx context.Context, buyerID, itemID string, quantity int) ([]entities.CartItem, error)
	RemoveItem(ctx context.Context, buyerID, itemID string) ([]entities.CartItem, error)
	Clear(ctx context.Context, buyerID string) error
}

type CartHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      CartService
}

func NewCartHandler(logger *slog.Logger, svc CartService) *CartHandler {
	return &CartHandler{
		logger:   logger.With(slog.String("handler", "cart")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *CartHandler) Init(r chi.Router) {
	r.Route("/cart/{buyer_id}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{item_id}", h.UpdateQuantity)
		r.Delete("/items/{item_id}", h.RemoveItem)
		r.Delete("/", h.Clear)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Items(r.Context(), chi.URLParam(r, "buyer_id"))
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	utils.WriteJSON(w, CartToJSON(items), http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req CartItem
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	items, err := h.svc.AddItem(r.Context(), chi.URLParam(r, "buyer_id"), CartItemToEntity(req))
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	utils.WriteJSON(w, CartToJSON(items), http.StatusCreated)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	items, err := h.svc.UpdateQuantity(r.Context(), chi.URLParam(r, "buyer_id"), chi.URLParam(r, "item_id"), req.Quantity)
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	utils.WriteJSON(w, CartToJSON(items), http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.RemoveItem(r.Context(), chi.URLParam(r, "buyer_id"), chi.URLParam(r, "item_id"))
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	utils.WriteJSON(w, CartToJSON(items), http.StatusOK)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context(), chi.URLParam(r, "buyer_id")); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	utils.WriteJSON(w, CartToJSON(nil), http.StatusOK)
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, entities.ErrCartItemNotFound) {
		utils.WriteError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "cart request failed", slog.Any("error", err))
	utils.WriteError(w, "internal server error", http.StatusInternalServerError)
}
