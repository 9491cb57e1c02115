package checkout

import (
	"strings"

	"github.com/tradegate/checkout-service/internal/entities"
)

// DetectBrand sniffs the card brand from the number prefix. This is cosmetic
// labeling only: no Luhn checksum, no issuer validation.
func DetectBrand(number string) entities.CardBrand {
	n := normalizeCardNumber(number)
	switch {
	case strings.HasPrefix(n, "4"):
		return entities.BrandVisa
	case len(n) >= 2 && n[0] == '5' && n[1] >= '1' && n[1] <= '5':
		return entities.BrandMastercard
	case strings.HasPrefix(n, "34") || strings.HasPrefix(n, "37"):
		return entities.BrandAmex
	case strings.HasPrefix(n, "6011") || strings.HasPrefix(n, "65"):
		return entities.BrandDiscover
	default:
		return entities.BrandUnknown
	}
}

// LastFour returns the last four digits of the card number, or the whole
// number when it is shorter than four digits.
func LastFour(number string) string {
	n := normalizeCardNumber(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

func normalizeCardNumber(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
