package calculation

import (
	"errors"
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	rpdecimal "github.com/rpgo/retirement-planner/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ErrIncompleteScenario is returned when a scenario lacks the monthly
// expenses needed to compute anything. Outputs are left unset.
var ErrIncompleteScenario = errors.New("scenario has no monthly retirement expenses")

// Inputs are the values a recalculation needs from outside the scenario.
type Inputs struct {
	// CurrentNetWorth is the portfolio value as of AsOf, in the scenario's currency
	CurrentNetWorth decimal.Decimal
	// AsOf is the calculation date; zero means today
	AsOf time.Time
	// MedianMonthlySurplus is historical income minus expenses. It is the
	// contribution fallback and drives the linear estimate when no growth rate is set.
	MedianMonthlySurplus *decimal.Decimal
}

// ScenarioCalculator runs the gap -> required portfolio -> retirement date
// pipeline over a scenario.
type ScenarioCalculator struct {
	Logger Logger
}

// NewScenarioCalculator creates a calculator with a no-op logger
func NewScenarioCalculator() *ScenarioCalculator {
	return &ScenarioCalculator{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculator. If nil is provided, a no-op logger is used.
func (sc *ScenarioCalculator) SetLogger(l Logger) {
	if l == nil {
		sc.Logger = NopLogger{}
		return
	}
	sc.Logger = l
}

// Recalculate computes the scenario's outputs and stores them on it along
// with the calculation date. Calling it again with the same inputs yields
// the same outputs. An incomplete scenario is left untouched and
// ErrIncompleteScenario is returned.
func (sc *ScenarioCalculator) Recalculate(s *domain.Scenario, in Inputs) error {
	asOf := resolveAsOf(in.AsOf)
	metrics, err := sc.Calculate(s, in)
	if err != nil {
		return err
	}
	s.CalculationDate = asOf
	s.Metrics = metrics
	return nil
}

// Calculate computes the outputs for the scenario without modifying it.
func (sc *ScenarioCalculator) Calculate(s *domain.Scenario, in Inputs) (domain.Metrics, error) {
	if s.MonthlyRetirementExpenses == nil {
		sc.Logger.Debugf("scenario %q: skipping calculation, no monthly expenses", s.Name)
		return domain.Metrics{}, ErrIncompleteScenario
	}
	asOf := resolveAsOf(in.AsOf)
	currency := rpdecimal.CurrencyOf(s.CurrencyCode())
	expenses := *s.MonthlyRetirementExpenses

	totalPension := NewPensionAggregator(s).TotalNow()

	gap := decimal.Max(expenses.Sub(totalPension), decimal.Zero)

	required := decimal.Zero
	if gap.IsPositive() {
		// The withdrawal rule covers only the part of expenses pensions do not
		rate := s.WithdrawalRateOrDefault().Div(hundred)
		required = currency.Round(gap.Mul(twelve).Div(rate))
	}

	current := in.CurrentNetWorth
	m := domain.Metrics{
		TotalPensionIncome:     domain.DecimalPtr(totalPension),
		IncomeGapMonthly:       domain.DecimalPtr(gap),
		RequiredPortfolioValue: domain.DecimalPtr(required),
		CurrentPortfolioValue:  domain.DecimalPtr(current),
		PortfolioGap:           domain.DecimalPtr(required.Sub(current)),
	}

	m.ProjectedRetirementDate = sc.estimateRetirementDate(s, m, asOf, in.MedianMonthlySurplus)

	sc.Logger.Debugf("scenario %q: pension=%s gap=%s required=%s current=%s",
		s.Name, totalPension.StringFixed(2), gap.StringFixed(2), required.StringFixed(2), current.StringFixed(2))
	return m, nil
}

func (sc *ScenarioCalculator) estimateRetirementDate(s *domain.Scenario, m domain.Metrics, asOf time.Time, surplus *decimal.Decimal) *time.Time {
	if m.CurrentPortfolioValue.GreaterThanOrEqual(*m.RequiredPortfolioValue) {
		return domain.TimePtr(asOf)
	}
	if m.TotalPensionIncome.GreaterThanOrEqual(*s.MonthlyRetirementExpenses) {
		return nil
	}
	if !m.PortfolioGap.IsPositive() {
		return nil
	}

	if s.PortfolioGrowthRate != nil {
		view := *s
		view.CalculationDate = asOf
		view.Metrics = m
		pe := NewProjectionEngine(&view, surplus)
		if p, ok := pe.FirstGoalMonth(RetirementSearchMonths); ok {
			return domain.TimePtr(p.Date)
		}
		sc.Logger.Infof("scenario %q: goal not reached within %d months", s.Name, RetirementSearchMonths)
		return nil
	}

	// Linear estimate without growth
	if surplus == nil || !surplus.IsPositive() {
		return nil
	}
	months := m.PortfolioGap.Div(*surplus).Ceil().IntPart()
	return domain.TimePtr(dateutil.AddMonths(asOf, int(months)))
}

func resolveAsOf(t time.Time) time.Time {
	if t.IsZero() {
		return Today()
	}
	return dateutil.Normalize(t)
}

// CanRetireNow reports whether the current portfolio covers the required value
func CanRetireNow(s *domain.Scenario) bool {
	m := s.Metrics
	if m.CurrentPortfolioValue == nil || m.RequiredPortfolioValue == nil {
		return false
	}
	return m.CurrentPortfolioValue.GreaterThanOrEqual(*m.RequiredPortfolioValue)
}

// PensionSelfSufficient reports whether pensions alone cover expenses
func PensionSelfSufficient(s *domain.Scenario) bool {
	if s.Metrics.TotalPensionIncome == nil || s.MonthlyRetirementExpenses == nil {
		return false
	}
	return s.Metrics.TotalPensionIncome.GreaterThanOrEqual(*s.MonthlyRetirementExpenses)
}

// ProgressPercent is current/required*100 rounded to one place, 100 when the
// goal is met and 0 when it is undefined.
func ProgressPercent(s *domain.Scenario) decimal.Decimal {
	if CanRetireNow(s) {
		return hundred
	}
	m := s.Metrics
	if m.RequiredPortfolioValue == nil || !m.RequiredPortfolioValue.IsPositive() || m.CurrentPortfolioValue == nil {
		return decimal.Zero
	}
	return m.CurrentPortfolioValue.Div(*m.RequiredPortfolioValue).Mul(hundred).Round(1)
}

// PensionCoveragePercent is the share of expenses covered by pensions
func PensionCoveragePercent(s *domain.Scenario) decimal.Decimal {
	if s.MonthlyRetirementExpenses == nil || !s.MonthlyRetirementExpenses.IsPositive() {
		return decimal.Zero
	}
	if PensionSelfSufficient(s) {
		return hundred
	}
	if s.Metrics.TotalPensionIncome == nil {
		return decimal.Zero
	}
	return s.Metrics.TotalPensionIncome.Div(*s.MonthlyRetirementExpenses).Mul(hundred).Round(1)
}

// MonthsUntilRetirement is the calendar month difference between the
// calculation date and the projected retirement date. The bool is false
// when no retirement date is known.
func MonthsUntilRetirement(s *domain.Scenario) (int, bool) {
	if CanRetireNow(s) {
		return 0, true
	}
	if s.Metrics.ProjectedRetirementDate == nil {
		return 0, false
	}
	return dateutil.MonthsBetween(s.CalculationDate, *s.Metrics.ProjectedRetirementDate), true
}

// YearsUntilRetirement is MonthsUntilRetirement/12 rounded to one place
func YearsUntilRetirement(s *domain.Scenario) (decimal.Decimal, bool) {
	months, ok := MonthsUntilRetirement(s)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(int64(months)).Div(twelve).Round(1), true
}

// AnnualRetirementExpenses returns monthly expenses * 12
func AnnualRetirementExpenses(s *domain.Scenario) *decimal.Decimal {
	if s.MonthlyRetirementExpenses == nil {
		return nil
	}
	return domain.DecimalPtr(s.MonthlyRetirementExpenses.Mul(twelve))
}

// AnnualPensionIncome returns total pension income * 12
func AnnualPensionIncome(s *domain.Scenario) *decimal.Decimal {
	if s.Metrics.TotalPensionIncome == nil {
		return nil
	}
	return domain.DecimalPtr(s.Metrics.TotalPensionIncome.Mul(twelve))
}

// RealPortfolioGrowthRate is the inflation-adjusted growth rate, nil unless
// both rates are set.
func RealPortfolioGrowthRate(s *domain.Scenario) *decimal.Decimal {
	if s.PortfolioGrowthRate == nil || s.InflationRate == nil {
		return nil
	}
	return domain.DecimalPtr(RealReturn(*s.PortfolioGrowthRate, *s.InflationRate))
}

// TotalContributionsProjected is contribution * months for the scenario's
// contribution (fixed or surplus fallback).
func TotalContributionsProjected(s *domain.Scenario, medianMonthlySurplus *decimal.Decimal, months int) decimal.Decimal {
	pe := NewProjectionEngine(s, medianMonthlySurplus)
	return pe.MonthlyContribution.Mul(decimal.NewFromInt(int64(months)))
}

// TotalReturnsProjected sums simulated returns over the given months
func TotalReturnsProjected(s *domain.Scenario, medianMonthlySurplus *decimal.Decimal, months int) decimal.Decimal {
	return TotalReturns(NewProjectionEngine(s, medianMonthlySurplus).Generate(months))
}
