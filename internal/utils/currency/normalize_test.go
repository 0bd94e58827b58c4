package currency_test

import (
	"testing"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	"github.com/SscSPs/reverse_auction_app/internal/utils/currency"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "10.5", want: "10.5"},
		{raw: "10,5", want: "10.5"},
		{raw: "  1 250,75 ", want: "1250.75"},
		{raw: "", want: "0"},
		{raw: "abc", want: "0"},
		{raw: "1,2,3", want: "0"},
		{raw: "-4", want: "-4"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := currency.ParseAmount(tt.raw)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNormalize(t *testing.T) {
	rates := domain.Rates{EURRate: decimal.NewFromFloat(4.3), USDRate: decimal.NewFromInt(4)}

	got, err := currency.Normalize(currency.ParseComponents("0", "10", "0"), rates)
	require.NoError(t, err)
	assert.Equal(t, "10.75", got.StringFixed(2))

	got, err = currency.Normalize(currency.ParseComponents("400", "0", "25"), rates)
	require.NoError(t, err)
	assert.Equal(t, "125.00", got.StringFixed(2))

	got, err = currency.Normalize(currency.ParseComponents("100", "", ""), domain.Rates{EURRate: decimal.NewFromInt(1), USDRate: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.Equal(t, "33.33", got.StringFixed(2))
}

func TestNormalize_RateGuard(t *testing.T) {
	components := currency.ParseComponents("100", "0", "0")

	_, err := currency.Normalize(components, domain.Rates{EURRate: decimal.NewFromFloat(4.3), USDRate: decimal.Zero})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRate)

	_, err = currency.Normalize(components, domain.Rates{EURRate: decimal.NewFromInt(-1), USDRate: decimal.NewFromInt(4)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRate)
}
