package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

// internalScale is the number of decimal places kept for intermediate
// monthly arithmetic. Results are rounded to currency precision by callers.
const internalScale int32 = 10

// maxCompoundYears bounds exact decimal powers, whose digits grow with the term
const maxCompoundYears = 1000

var (
	hundred      = decimal.NewFromInt(100)
	twelve       = decimal.NewFromInt(12)
	monthsInYear = decimal.NewFromInt(1200) // 12 months * 100 percent
)

// FutureValue is the outcome of a month-by-month accumulation
type FutureValue struct {
	FinalBalance       decimal.Decimal `json:"final_balance"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TotalReturns       decimal.Decimal `json:"total_returns"`
}

// MonthlyRate converts an annual percentage to a monthly fraction (7.0 -> 0.0058333...)
func MonthlyRate(annualRatePct decimal.Decimal) decimal.Decimal {
	return annualRatePct.Div(monthsInYear)
}

// compoundMonth applies one month of growth followed by the contribution.
// Both the projection engine and FutureValueWithContributions step through
// this function so their per-month figures are identical.
func compoundMonth(balance, monthlyRate, contribution decimal.Decimal) (next, ret decimal.Decimal) {
	ret = balance.Mul(monthlyRate).Round(internalScale)
	return balance.Add(ret).Add(contribution), ret
}

// CompoundInterest returns principal * (1 + r)^years with r = annualRatePct/100.
// The whole years use exact decimal powers and only the fractional remainder
// goes through float exponentiation. Undefined results, such as a fractional
// power of a negative base, are zero, as are terms beyond maxCompoundYears.
func CompoundInterest(principal, annualRatePct, years decimal.Decimal) decimal.Decimal {
	base := decimal.NewFromInt(1).Add(annualRatePct.Div(hundred))
	whole := years.Floor()
	if whole.Abs().GreaterThan(decimal.NewFromInt(maxCompoundYears)) {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1)
	switch {
	case whole.IsZero():
	case base.IsZero() && whole.IsNegative():
		return decimal.Zero
	default:
		f, err := base.PowInt32(int32(whole.IntPart()))
		if err != nil {
			return decimal.Zero
		}
		factor = f
	}
	if frac := years.Sub(whole); !frac.IsZero() {
		b, _ := base.Float64()
		f, _ := frac.Float64()
		p := math.Pow(b, f)
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return decimal.Zero
		}
		factor = factor.Mul(decimal.NewFromFloat(p))
	}
	return principal.Mul(factor).Round(internalScale)
}

// FutureValueWithContributions simulates month by month: each month earns
// balance*monthly_rate and then receives the contribution.
func FutureValueWithContributions(principal, annualRatePct, monthlyContribution decimal.Decimal, months int) FutureValue {
	rate := MonthlyRate(annualRatePct)
	balance := principal
	totalReturns := decimal.Zero

	for m := 0; m < months; m++ {
		var ret decimal.Decimal
		balance, ret = compoundMonth(balance, rate, monthlyContribution)
		totalReturns = totalReturns.Add(ret)
	}

	n := months
	if n < 0 {
		n = 0
	}
	return FutureValue{
		FinalBalance:       balance,
		TotalContributions: monthlyContribution.Mul(decimal.NewFromInt(int64(n))),
		TotalReturns:       totalReturns,
	}
}

// RequiredMonthlyContribution solves the ordinary-annuity future value
// formula for the payment that closes the gap between the grown current
// value and the target after the given number of months.
func RequiredMonthlyContribution(currentValue, targetValue, annualRatePct decimal.Decimal, months int) decimal.Decimal {
	if currentValue.GreaterThanOrEqual(targetValue) {
		return decimal.Zero
	}
	if months <= 0 {
		// No time left to contribute: the whole gap is due at once.
		return targetValue.Sub(currentValue)
	}

	rate := MonthlyRate(annualRatePct)
	growth := growthFactor(rate, months)

	remaining := targetValue.Sub(currentValue.Mul(growth))
	if !remaining.IsPositive() {
		return decimal.Zero
	}

	if rate.IsZero() {
		return remaining.Div(decimal.NewFromInt(int64(months))).Round(internalScale)
	}
	return remaining.Mul(rate).Div(growth.Sub(decimal.NewFromInt(1))).Round(internalScale)
}

// RealReturn applies the Fisher equation and returns a percentage:
// ((1 + n/100) / (1 + i/100) - 1) * 100. Inflation of -100 % or below has
// no real return and yields zero.
func RealReturn(nominalRatePct, inflationRatePct decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	n := one.Add(nominalRatePct.Div(hundred))
	i := one.Add(inflationRatePct.Div(hundred))
	if !i.IsPositive() {
		return decimal.Zero
	}
	return n.Div(i).Sub(one).Mul(hundred)
}

// growthFactor returns (1 + rate)^months
func growthFactor(rate decimal.Decimal, months int) decimal.Decimal {
	f, err := decimal.NewFromInt(1).Add(rate).PowInt32(int32(months))
	if err != nil {
		return decimal.NewFromInt(1)
	}
	return f.Round(internalScale + 6)
}
