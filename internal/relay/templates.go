package relay

import (
	"fmt"
	"strings"

	"github.com/tradegate/checkout-service/internal/notifier"
)

// Format renders a relay payload into the human-readable text posted to the
// messaging channel. Unknown or malformed payloads produce an error so the
// consumer can route them to the DLQ.
func Format(p notifier.Payload) (string, error) {
	switch p.Type {
	case notifier.TypeOrder:
		if p.Order == nil {
			return "", fmt.Errorf("order payload without order data")
		}
		return formatOrder(*p.Order), nil
	case notifier.TypePayment:
		if p.Payment == nil {
			return "", fmt.Errorf("payment payload without payment data")
		}
		return formatPayment(*p.Payment), nil
	case notifier.TypeMessage:
		if p.Message == nil {
			return "", fmt.Errorf("message payload without message data")
		}
		return formatMessage(*p.Message), nil
	default:
		return "", fmt.Errorf("unknown payload type %q", p.Type)
	}
}

func formatOrder(d notifier.OrderData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 New order confirmed\n")
	fmt.Fprintf(&b, "Buyer: %s\n", d.BuyerID)
	fmt.Fprintf(&b, "Orders: %d (%s)\n", d.OrderCount, strings.Join(d.OrderIDs, ", "))
	fmt.Fprintf(&b, "Total: %s %s\n", d.Total.StringFixed(2), d.Currency)
	for _, line := range d.Lines {
		fmt.Fprintf(&b, "  • %s ×%d @ %s\n", line.Title, line.Quantity, line.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "Ship to: %s, %s, %s %s, %s",
		d.Shipping.FullName, d.Shipping.StreetAddress, d.Shipping.City,
		d.Shipping.PostalCode, d.Shipping.Country)
	return b.String()
}

func formatPayment(d notifier.PaymentData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💳 Payment %s\n", d.Status)
	fmt.Fprintf(&b, "Transaction: %s\n", d.TransactionID)
	fmt.Fprintf(&b, "Buyer: %s\n", d.BuyerID)
	fmt.Fprintf(&b, "Amount: %s %s\n", d.Amount.StringFixed(2), d.Currency)
	fmt.Fprintf(&b, "Card: %s •••• %s\n", d.CardBrand, d.CardLastFour)
	fmt.Fprintf(&b, "Contact: %s (%s)", d.Shipping.FullName, d.Shipping.PhoneNumber)
	return b.String()
}

func formatMessage(d notifier.MessageData) string {
	return fmt.Sprintf("✉️ %s\nUser: %s\n%s", d.Title, d.UserID, d.Body)
}
