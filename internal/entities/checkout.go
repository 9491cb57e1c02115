package entities

import (
	"errors"
	"fmt"
)

type CheckoutState string

const (
	StateShipping   CheckoutState = "shipping"
	StatePayment    CheckoutState = "payment"
	StateProcessing CheckoutState = "processing"
	StateOTP        CheckoutState = "otp"
	StateReview     CheckoutState = "review"
	StateConfirmed  CheckoutState = "confirmed"
)

var (
	ErrSessionNotFound     = errors.New("checkout session not found")
	ErrInvalidTransition   = errors.New("invalid checkout transition")
	ErrShippingRequired    = errors.New("shipping details are required")
	ErrCardRequired        = errors.New("card details are required")
	ErrProcessingPending   = errors.New("payment is still processing")
	ErrOTPNotVerified      = errors.New("transaction is not otp verified")
	ErrInvalidOTP          = errors.New("invalid otp code")
	ErrOTPExpired          = errors.New("otp code expired")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
)

// forwardTransitions is the linear happy path of the wizard.
var forwardTransitions = map[CheckoutState]CheckoutState{
	StateShipping:   StatePayment,
	StatePayment:    StateProcessing,
	StateProcessing: StateOTP,
	StateOTP:        StateReview,
	StateReview:     StateConfirmed,
}

// backwardTransitions are navigation-only: no store mutation happens on them.
var backwardTransitions = map[CheckoutState]CheckoutState{
	StatePayment: StateShipping,
	StateOTP:     StatePayment,
	StateReview:  StateOTP,
}

func (s CheckoutState) Next() (CheckoutState, bool) {
	next, ok := forwardTransitions[s]
	return next, ok
}

func (s CheckoutState) Prev() (CheckoutState, bool) {
	prev, ok := backwardTransitions[s]
	return prev, ok
}

func (s CheckoutState) IsTerminal() bool {
	return s == StateConfirmed
}

func (s CheckoutState) String() string {
	return string(s)
}

// TransitionError wraps ErrInvalidTransition with the attempted edge.
func TransitionError(from, to CheckoutState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

type ShippingDetails struct {
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	Email         string `json:"email"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	StateProvince string `json:"state_province"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// CardDetails is ephemeral: it never reaches durable storage, only the
// derived brand and last four digits do.
type CardDetails struct {
	CardholderName string
	CardNumber     string
	ExpiryMonth    string
	ExpiryYear     string
	CVV            string
}
