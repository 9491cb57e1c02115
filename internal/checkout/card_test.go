package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradegate/checkout-service/internal/checkout"
	"github.com/tradegate/checkout-service/internal/entities"
)

func TestDetectBrand(t *testing.T) {
	testCases := []struct {
		name   string
		number string
		want   entities.CardBrand
	}{
		{name: "visa", number: "4242424242424242", want: entities.BrandVisa},
		{name: "visa with spaces", number: "4242 4242 4242 4242", want: entities.BrandVisa},
		{name: "mastercard 51", number: "5105105105105100", want: entities.BrandMastercard},
		{name: "mastercard 55", number: "5555555555554444", want: entities.BrandMastercard},
		{name: "amex 34", number: "340000000000009", want: entities.BrandAmex},
		{name: "amex 37", number: "378282246310005", want: entities.BrandAmex},
		{name: "discover 6011", number: "6011111111111117", want: entities.BrandDiscover},
		{name: "discover 65", number: "6500000000000002", want: entities.BrandDiscover},
		{name: "mastercard boundary 50", number: "5000000000000000", want: entities.BrandUnknown},
		{name: "mastercard boundary 56", number: "5600000000000000", want: entities.BrandUnknown},
		{name: "unknown", number: "9999999999999999", want: entities.BrandUnknown},
		{name: "empty", number: "", want: entities.BrandUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, checkout.DetectBrand(tc.number))
		})
	}
}

func TestLastFour(t *testing.T) {
	testCases := []struct {
		name   string
		number string
		want   string
	}{
		{name: "full number", number: "4242424242424242", want: "4242"},
		{name: "with separators", number: "4242-4242-4242-4243", want: "4243"},
		{name: "short number", number: "123", want: "123"},
		{name: "exactly four", number: "1234", want: "1234"},
		{name: "empty", number: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, checkout.LastFour(tc.number))
		})
	}
}
