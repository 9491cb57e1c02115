package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradegate/checkout-service/internal/checkout"
	"github.com/tradegate/checkout-service/internal/entities"
)

type StartCheckoutRequest struct {
	BuyerID string `json:"buyer_id" validate:"required"`
}

type ShippingRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	PhoneNumber   string `json:"phone_number" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	StreetAddress string `json:"street_address" validate:"required"`
	City          string `json:"city" validate:"required"`
	StateProvince string `json:"state_province" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	Country       string `json:"country" validate:"required"`
}

type PaymentRequest struct {
	CardholderName string `json:"cardholder_name" validate:"required"`
	CardNumber     string `json:"card_number" validate:"required,min=12"`
	ExpiryMonth    string `json:"expiry_month" validate:"required,len=2,numeric"`
	ExpiryYear     string `json:"expiry_year" validate:"required,min=2,max=4,numeric"`
	CVV            string `json:"cvv" validate:"required,min=3,max=4,numeric"`
}

type OTPRequest struct {
	Code string `json:"code" validate:"required"`
}

// CartItem mirrors the storefront cart line.
type CartItem struct {
	ID         string          `json:"id,omitempty"`
	ProductID  string          `json:"product_id" validate:"required"`
	SellerID   string          `json:"seller_id" validate:"required"`
	SellerName string          `json:"seller_name" validate:"required"`
	Title      string          `json:"title" validate:"required"`
	Image      string          `json:"image,omitempty"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	Quantity   int             `json:"quantity" validate:"required,gte=1"`
	MOQ        int             `json:"moq" validate:"required,gte=1"`
	Unit       string          `json:"unit,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type CartResponse struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

type SellerGroup struct {
	SellerID   string          `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Items      []CartItem      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type Session struct {
	SessionID string `json:"session_id"`
	BuyerID   string `json:"buyer_id"`
	State     string `json:"state"`

	Items  []CartItem      `json:"items"`
	Groups []SellerGroup   `json:"groups"`
	Total  decimal.Decimal `json:"total"`

	Shipping *ShippingRequest `json:"shipping,omitempty"`

	CardBrand    string `json:"card_brand,omitempty"`
	CardLastFour string `json:"card_last_four,omitempty"`

	TransactionID     string     `json:"transaction_id,omitempty"`
	ProcessingReadyAt *time.Time `json:"processing_ready_at,omitempty"`

	OTPAttemptsLeft int        `json:"otp_attempts_left,omitempty"`
	OTPExpiresAt    *time.Time `json:"otp_expires_at,omitempty"`

	OrderIDs  []string  `json:"order_ids,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type TrackingItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Unit      string          `json:"unit,omitempty"`
}

type Order struct {
	OrderID    string          `json:"order_id"`
	BuyerID    string          `json:"buyer_id"`
	SellerID   string          `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	ProductID  string          `json:"product_id,omitempty"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	Shipping   ShippingRequest `json:"shipping"`
	Items      []TrackingItem  `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

func ShippingToEntity(r ShippingRequest) entities.ShippingDetails {
	return entities.ShippingDetails{
		FullName:      r.FullName,
		PhoneNumber:   r.PhoneNumber,
		Email:         r.Email,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		StateProvince: r.StateProvince,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
	}
}

func ShippingToJSON(d entities.ShippingDetails) ShippingRequest {
	return ShippingRequest{
		FullName:      d.FullName,
		PhoneNumber:   d.PhoneNumber,
		Email:         d.Email,
		StreetAddress: d.StreetAddress,
		City:          d.City,
		StateProvince: d.StateProvince,
		PostalCode:    d.PostalCode,
		Country:       d.Country,
	}
}

func CardToEntity(r PaymentRequest) entities.CardDetails {
	return entities.CardDetails{
		CardholderName: r.CardholderName,
		CardNumber:     r.CardNumber,
		ExpiryMonth:    r.ExpiryMonth,
		ExpiryYear:     r.ExpiryYear,
		CVV:            r.CVV,
	}
}

func CartItemToEntity(i CartItem) entities.CartItem {
	return entities.CartItem{
		ID:         i.ID,
		ProductID:  i.ProductID,
		SellerID:   i.SellerID,
		SellerName: i.SellerName,
		Title:      i.Title,
		Image:      i.Image,
		Price:      i.Price,
		Quantity:   i.Quantity,
		MOQ:        i.MOQ,
		Unit:       i.Unit,
	}
}

func CartItemToJSON(i entities.CartItem) CartItem {
	return CartItem{
		ID:         i.ID,
		ProductID:  i.ProductID,
		SellerID:   i.SellerID,
		SellerName: i.SellerName,
		Title:      i.Title,
		Image:      i.Image,
		Price:      i.Price,
		Quantity:   i.Quantity,
		MOQ:        i.MOQ,
		Unit:       i.Unit,
	}
}

func CartToJSON(items []entities.CartItem) CartResponse {
	out := make([]CartItem, 0, len(items))
	count := 0
	for _, it := range items {
		out = append(out, CartItemToJSON(it))
		count += it.Quantity
	}
	return CartResponse{
		Items:     out,
		Total:     entities.CartTotal(items),
		ItemCount: count,
	}
}

func SessionToJSON(v checkout.View) Session {
	items := make([]CartItem, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, CartItemToJSON(it))
	}
	groups := make([]SellerGroup, 0, len(v.Groups))
	for _, g := range v.Groups {
		groupItems := make([]CartItem, 0, len(g.Items))
		for _, it := range g.Items {
			groupItems = append(groupItems, CartItemToJSON(it))
		}
		groups = append(groups, SellerGroup{
			SellerID:   g.SellerID,
			SellerName: g.SellerName,
			Items:      groupItems,
			Subtotal:   g.Subtotal,
		})
	}

	s := Session{
		SessionID:       v.ID,
		BuyerID:         v.BuyerID,
		State:           string(v.State),
		Items:           items,
		Groups:          groups,
		Total:           entities.CartTotal(v.Items),
		CardBrand:       string(v.CardBrand),
		CardLastFour:    v.CardLastFour,
		TransactionID:   v.TransactionID,
		OTPAttemptsLeft: v.OTPAttemptsLeft,
		OrderIDs:        v.OrderIDs,
		CreatedAt:       v.CreatedAt,
	}
	if v.Shipping != nil {
		shipping := ShippingToJSON(*v.Shipping)
		s.Shipping = &shipping
	}
	if !v.ProcessingReadyAt.IsZero() {
		t := v.ProcessingReadyAt
		s.ProcessingReadyAt = &t
	}
	if !v.OTPExpiresAt.IsZero() {
		t := v.OTPExpiresAt
		s.OTPExpiresAt = &t
	}
	return s
}

func OrderToJSON(o entities.Order) Order {
	items := make([]TrackingItem, 0, len(o.TrackingInfo.Items))
	for _, it := range o.TrackingInfo.Items {
		items = append(items, TrackingItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
		})
	}
	return Order{
		OrderID:    o.ID,
		BuyerID:    o.BuyerID,
		SellerID:   o.SellerID,
		SellerName: o.SellerName,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		Shipping:   ShippingToJSON(o.TrackingInfo.Shipping),
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}
