package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrencyLookup(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantCode string
		fraction int32
	}{
		{"Euro", "EUR", "EUR", 2},
		{"Lower case", "usd", "USD", 2},
		{"Yen has no minor unit", "JPY", "JPY", 0},
		{"Unknown falls back", "XXX-NOPE", DefaultCurrency, 2},
		{"Empty falls back", "", DefaultCurrency, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CurrencyOf(tt.code)
			assert.Equal(t, tt.wantCode, c.Code())
			assert.Equal(t, tt.fraction, c.Fraction())
		})
	}

	assert.True(t, IsKnownCurrency("chf"))
	assert.False(t, IsKnownCurrency("XXX-NOPE"))
}

func TestCurrencyRounding(t *testing.T) {
	eur := CurrencyOf("EUR")
	assert.Equal(t, "1200000.13", eur.Round(stddec.RequireFromString("1200000.125")).StringFixed(2))

	jpy := CurrencyOf("JPY")
	assert.Equal(t, "1235", jpy.Round(stddec.RequireFromString("1234.5")).String())
	assert.Equal(t, "10", eur.Round(stddec.RequireFromString("10.004")).String())
}

func TestCurrencyDisplay(t *testing.T) {
	usd := CurrencyOf("USD")
	assert.Equal(t, "$", usd.Symbol())
	assert.Equal(t, "$10.00", usd.Display(stddec.NewFromInt(10)))
	assert.Equal(t, "$1,234.50", usd.Display(stddec.RequireFromString("1234.5")))

	eur := CurrencyOf("EUR")
	assert.Equal(t, "€", eur.Symbol())
	out := eur.Display(stddec.RequireFromString("1234.5"))
	assert.Contains(t, out, "€")
	assert.Contains(t, out, "1,234.50")
}
