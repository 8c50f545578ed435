package output

import (
	"strconv"

	rpdecimal "github.com/rpgo/retirement-planner/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount with the currency's symbol, separators and precision.
func FormatCurrency(amount decimal.Decimal, code string) string {
	return rpdecimal.CurrencyOf(code).Display(amount)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

// optionalString renders a nullable amount, empty when absent
func optionalString(d *decimal.Decimal, places int32) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(places)
}
