package relay_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradegate/checkout-service/internal/entities"
	"github.com/tradegate/checkout-service/internal/notifier"
	"github.com/tradegate/checkout-service/internal/relay"
)

func TestFormat(t *testing.T) {
	shipping := entities.ShippingDetails{
		FullName:      "Jordan Vale",
		PhoneNumber:   "+15550001111",
		StreetAddress: "1 Harbor Way",
		City:          "Oakland",
		PostalCode:    "94607",
		Country:       "US",
	}

	t.Run("order", func(t *testing.T) {
		text, err := relay.Format(notifier.Payload{
			Type: notifier.TypeOrder,
			Order: &notifier.OrderData{
				OrderIDs:   []string{"o1", "o2"},
				BuyerID:    "buyer-1",
				Total:      decimal.RequireFromString("43.00"),
				Currency:   "USD",
				Lines:      []notifier.OrderLine{{Title: "Widget", Quantity: 2, Price: decimal.RequireFromString("10.00")}},
				Shipping:   shipping,
				OrderCount: 2,
			},
		})
		require.NoError(t, err)

		assert.Contains(t, text, "buyer-1")
		assert.Contains(t, text, "o1, o2")
		assert.Contains(t, text, "43.00 USD")
		assert.Contains(t, text, "Widget")
		assert.Contains(t, text, "Oakland")
	})

	t.Run("payment", func(t *testing.T) {
		text, err := relay.Format(notifier.Payload{
			Type: notifier.TypePayment,
			Payment: &notifier.PaymentData{
				TransactionID: "tx-1",
				BuyerID:       "buyer-1",
				Amount:        decimal.RequireFromString("43.00"),
				Currency:      "USD",
				CardBrand:     entities.BrandVisa,
				CardLastFour:  "4242",
				Status:        "pending_otp",
				Shipping:      shipping,
			},
		})
		require.NoError(t, err)

		assert.Contains(t, text, "tx-1")
		assert.Contains(t, text, "Visa")
		assert.Contains(t, text, "4242")
		assert.NotContains(t, text, "4242424242424242")
	})

	t.Run("message", func(t *testing.T) {
		text, err := relay.Format(notifier.Payload{
			Type:    notifier.TypeMessage,
			Message: &notifier.MessageData{UserID: "u1", Title: "OTP resent", Body: "new code issued"},
		})
		require.NoError(t, err)

		assert.Contains(t, text, "OTP resent")
		assert.Contains(t, text, "u1")
	})

	t.Run("missing data", func(t *testing.T) {
		_, err := relay.Format(notifier.Payload{Type: notifier.TypeOrder})
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := relay.Format(notifier.Payload{Type: "bogus"})
		assert.Error(t, err)
	})
}
