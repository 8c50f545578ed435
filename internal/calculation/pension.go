package calculation

import (
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// LegacyPensionTotal sums the manual per-type pension amounts, skipping any
// type that already has a linked pension source. A linked source suppresses
// the manual amount even when its own payout is unset or zero.
func LegacyPensionTotal(legacy map[domain.PensionType]decimal.Decimal, linkedTypes map[domain.PensionType]bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range domain.PensionTypes {
		amount, ok := legacy[t]
		if !ok || linkedTypes[t] {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// PensionAggregator merges guaranteed income streams of a scenario: state
// pension, linked pension sources, legacy manual fields and other pensions.
type PensionAggregator struct {
	scenario *domain.Scenario
}

// NewPensionAggregator creates an aggregator over the scenario's current inputs
func NewPensionAggregator(s *domain.Scenario) *PensionAggregator {
	return &PensionAggregator{scenario: s}
}

// TotalNow returns the total monthly pension income without date gates.
func (pa *PensionAggregator) TotalNow() decimal.Decimal {
	s := pa.scenario
	total := decimal.Zero

	if s.StatePensionMonthly != nil {
		total = total.Add(*s.StatePensionMonthly)
	}
	total = total.Add(pa.linkedPayoutTotal(nil))
	total = total.Add(pa.legacyTotal())
	if s.OtherPensionMonthly != nil {
		total = total.Add(*s.OtherPensionMonthly)
	}
	return total
}

// IncomeBreakdownAt returns the monthly income active on date. Each call is
// independent of previous calls, so dates may be queried in any order.
func (pa *PensionAggregator) IncomeBreakdownAt(date time.Time) domain.IncomeBreakdown {
	s := pa.scenario
	b := domain.IncomeBreakdown{
		Salary:          decimal.Zero,
		StatePension:    decimal.Zero,
		PrivatePensions: decimal.Zero,
		Other:           decimal.Zero,
	}

	// Salary runs through the end date inclusive
	if s.CurrentAnnualSalary != nil && s.CurrentAnnualSalary.IsPositive() {
		if s.SalaryEndDate == nil || !date.After(*s.SalaryEndDate) {
			b.Salary = s.CurrentAnnualSalary.Div(twelve).Round(internalScale)
		}
	}

	if isActive(s.StatePensionMonthly, s.StatePensionStartDate, date) {
		b.StatePension = *s.StatePensionMonthly
	}

	b.PrivatePensions = pa.linkedPayoutTotal(&date).Add(pa.legacyTotal())

	if isActive(s.OtherPensionMonthly, s.OtherPensionStartDate, date) {
		b.Other = *s.OtherPensionMonthly
	}
	return b
}

// ProjectIncomeAt returns the total monthly income active on date
func (pa *PensionAggregator) ProjectIncomeAt(date time.Time) decimal.Decimal {
	return pa.IncomeBreakdownAt(date).Total()
}

// linkedPayoutTotal sums sources with a payout. When on is non-nil, sources
// whose payout has not started by then are skipped.
func (pa *PensionAggregator) linkedPayoutTotal(on *time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, src := range pa.scenario.PensionSources {
		if !src.HasPayout() {
			continue
		}
		if on != nil && src.PayoutStartDate != nil && on.Before(*src.PayoutStartDate) {
			continue
		}
		total = total.Add(src.Payout())
	}
	return total
}

func (pa *PensionAggregator) legacyTotal() decimal.Decimal {
	return LegacyPensionTotal(pa.scenario.LegacyPensions(), pa.scenario.LinkedPensionTypes())
}

// isActive reports whether a positive amount has started by date. A missing
// start date means the income is always active.
func isActive(amount *decimal.Decimal, start *time.Time, date time.Time) bool {
	if amount == nil || !amount.IsPositive() {
		return false
	}
	return start == nil || !date.Before(*start)
}
