package currency

import (
	"fmt"
	"strings"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NormalizedPrecision is the number of decimals kept on a normalized value.
const NormalizedPrecision = 2

// ParseAmount reads a user-entered number. Comma decimal separators are accepted and
// anything unparseable becomes zero; it never fails.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseComponents reads the three raw currency strings of a freight submission.
func ParseComponents(home, eur, usd string) domain.CurrencyComponents {
	return domain.CurrencyComponents{
		Home: ParseAmount(home),
		EUR:  ParseAmount(eur),
		USD:  ParseAmount(usd),
	}
}

// Normalize converts every component into home currency, sums them and expresses
// the sum in USD: (home + eur*eurRate + usd*usdRate) / usdRate, rounded to cents.
// A non-positive rate is rejected rather than divided by.
func Normalize(c domain.CurrencyComponents, r domain.Rates) (decimal.Decimal, error) {
	if err := r.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrInvalidRate, err)
	}
	inHome := c.Home.
		Add(c.EUR.Mul(r.EURRate)).
		Add(c.USD.Mul(r.USDRate))
	return inHome.Div(r.USDRate).Round(NormalizedPrecision), nil
}

// HomePrice is the comparison value of a single home-currency goods price.
// Goods exchanges compare in home currency, so only rounding is applied.
func HomePrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(NormalizedPrecision)
}
