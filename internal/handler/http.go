package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradegate/checkout-service/internal/checkout"
	"github.com/tradegate/checkout-service/internal/entities"
	"github.com/tradegate/checkout-service/pkg/utils"
)

type CheckoutService interface {
	Start(ctx context.Context, buyerID string) (checkout.View, error)
	Get(ctx context.Context, sessionID string) (checkout.View, error)
	SubmitShipping(ctx context.Context, sessionID string, details entities.ShippingDetails) (checkout.View, error)
	SubmitPayment(ctx context.Context, sessionID string, card entities.CardDetails) (checkout.View, error)
	SubmitOTP(ctx context.Context, sessionID, code string) (checkout.View, error)
	ResendOTP(ctx context.Context, sessionID string) (checkout.View, error)
	Confirm(ctx context.Context, sessionID string) (checkout.View, error)
	Back(ctx context.Context, sessionID string) (checkout.View, error)
}

type OrderReader interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID string, limit int) ([]entities.Order, error)
}

type CheckoutHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      CheckoutService
	orders   OrderReader
}

func NewCheckoutHandler(logger *slog.Logger, svc CheckoutService, orders OrderReader) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger.With(slog.String("handler", "checkout")),
		validate: validator.New(),
		svc:      svc,
		orders:   orders,
	}
}

func (h *CheckoutHandler) Init(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.Start)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Post("/shipping", h.SubmitShipping)
			r.Post("/payment", h.SubmitPayment)
			r.Post("/otp", h.SubmitOTP)
			r.Post("/otp/resend", h.ResendOTP)
			r.Post("/confirm", h.Confirm)
			r.Post("/back", h.Back)
		})
	})
	r.Get("/orders/{order_id}", h.GetOrder)
	r.Get("/buyers/{buyer_id}/orders", h.ListOrders)
}

func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartCheckoutRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	view, err := h.svc.Start(r.Context(), req.BuyerID)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	sessionsStarted.Inc()
	utils.WriteJSON(w, SessionToJSON(view), http.StatusCreated)
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Get(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	utils.WriteJSON(w, SessionToJSON(view), http.StatusOK)
}

func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	view, err := h.svc.SubmitShipping(r.Context(), chi.URLParam(r, "session_id"), ShippingToEntity(req))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	h.observeTransition(view)
	utils.WriteJSON(w, SessionToJSON(view), http.StatusOK)
}

func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	view, err := h.svc.SubmitPayment(r.Context(), chi.URLParam(r, "session_id"), CardToEntity(req))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	h.observeTransition(view)
	utils.WriteJSON(w, SessionToJSON(view), http.StatusOK)
}

func (h *CheckoutHandler) SubmitOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	view, err := h.svc.SubmitOTP(r.Context(), chi.URLParam(r, "session_id"), req.Code)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	h.observeTransition(view)
	utils.WriteJSON(w, SessionToJSON(view), http.StatusOK)
}

func (h *CheckoutHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ResendOTP(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	utils.WriteJSON(w, SessionToJSON(view), http.StatusOK)
}

func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Confirm(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	h.observeTransition(view)
	ordersCreated.Add(float64(len(view.OrderIDs)))
	utils.WriteJSON(w, SessionToJSON(view), http.StatusOK)
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Back(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	utils.WriteJSON(w, SessionToJSON(view), http.StatusOK)
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, OrderToJSON(order), http.StatusOK)
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	buyerID := chi.URLParam(r, "buyer_id")

	orders, err := h.orders.ListOrdersByBuyer(ctx, buyerID, 100)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders", slog.Any("error", err), slog.String("buyer_id", buyerID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderToJSON(o))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

func (h *CheckoutHandler) observeTransition(v checkout.View) {
	stateTransitions.WithLabelValues(string(v.State)).Inc()
}

// writeCheckoutError maps machine errors onto HTTP codes. Validation
// failures never reach this point: they are handled per-field above.
func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entities.ErrSessionNotFound),
		errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, entities.ErrInvalidTransition),
		errors.Is(err, entities.ErrProcessingPending),
		errors.Is(err, entities.ErrShippingRequired),
		errors.Is(err, entities.ErrCardRequired),
		errors.Is(err, entities.ErrOTPNotVerified):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrInvalidOTP),
		errors.Is(err, entities.ErrOTPExpired),
		errors.Is(err, entities.ErrOTPAttemptsExceeded):
		otpRejections.Inc()
		utils.WriteError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrEmptyCart),
		errors.Is(err, entities.ErrBelowMOQ):
		utils.WriteError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.ErrorContext(r.Context(), "checkout request failed", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
