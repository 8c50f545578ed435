package decimal

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a scenario does not name one.
const DefaultCurrency = "EUR"

// Currency carries the display and precision rules of an ISO 4217 currency.
type Currency struct {
	cur *gomoney.Currency
}

// CurrencyOf looks up a currency by ISO code. Unknown or empty codes fall
// back to DefaultCurrency.
func CurrencyOf(code string) Currency {
	c := gomoney.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if c == nil {
		c = gomoney.GetCurrency(DefaultCurrency)
	}
	return Currency{cur: c}
}

// IsKnownCurrency reports whether code names a currency go-money knows.
func IsKnownCurrency(code string) bool {
	return gomoney.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}

// Code returns the ISO code
func (c Currency) Code() string { return c.cur.Code }

// Symbol returns the display symbol, e.g. "€"
func (c Currency) Symbol() string { return c.cur.Grapheme }

// Fraction returns the number of minor-unit digits
func (c Currency) Fraction() int32 { return int32(c.cur.Fraction) }

// Round rounds an amount to the currency's minor unit
func (c Currency) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.Fraction())
}

// Display renders an amount using go-money's formatter for the currency.
func (c Currency) Display(d decimal.Decimal) string {
	factor, _ := decimal.NewFromInt(10).PowInt32(c.Fraction())
	minor := c.Round(d).Mul(factor).IntPart()
	return gomoney.New(minor, c.cur.Code).Display()
}
