package calculation

import (
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	// DefaultProjectionMonths is the horizon used when none is given (30 years)
	DefaultProjectionMonths = 360
	// RetirementSearchMonths bounds the search for a retirement date (40 years)
	RetirementSearchMonths = 480
)

// ProjectionEngine simulates portfolio growth month by month from the
// scenario's current value toward its required value.
type ProjectionEngine struct {
	StartDate           time.Time
	StartingValue       decimal.Decimal
	RequiredValue       decimal.Decimal
	GrowthRatePct       decimal.Decimal
	MonthlyContribution decimal.Decimal
	// DefaultMonths is used by Generate when no horizon is given
	DefaultMonths int
}

// NewProjectionEngine builds an engine from a recalculated scenario. The
// contribution is the scenario's fixed monthly contribution, falling back to
// the supplied median monthly surplus, else zero.
func NewProjectionEngine(s *domain.Scenario, medianMonthlySurplus *decimal.Decimal) *ProjectionEngine {
	pe := &ProjectionEngine{
		StartDate:           s.CalculationDate,
		StartingValue:       decimal.Zero,
		RequiredValue:       decimal.Zero,
		GrowthRatePct:       s.GrowthRateOrDefault(),
		MonthlyContribution: decimal.Zero,
		DefaultMonths:       DefaultProjectionMonths,
	}
	if v := s.Metrics.CurrentPortfolioValue; v != nil {
		pe.StartingValue = *v
	}
	if v := s.Metrics.RequiredPortfolioValue; v != nil {
		pe.RequiredValue = *v
	}
	switch {
	case s.MonthlyContribution != nil:
		pe.MonthlyContribution = *s.MonthlyContribution
	case medianMonthlySurplus != nil:
		pe.MonthlyContribution = *medianMonthlySurplus
	}
	if m, ok := MonthsUntilRetirement(s); ok && m > 0 {
		pe.DefaultMonths = m
	}
	return pe
}

// Generate returns one point per simulated month. A non-positive month count
// uses DefaultMonths. Point k is dated StartDate + k months.
func (pe *ProjectionEngine) Generate(months int) []domain.ProjectionPoint {
	if months <= 0 {
		months = pe.DefaultMonths
		if months <= 0 {
			months = DefaultProjectionMonths
		}
	}

	rate := MonthlyRate(pe.GrowthRatePct)
	balance := pe.StartingValue
	points := make([]domain.ProjectionPoint, 0, months)

	for m := 1; m <= months; m++ {
		var ret decimal.Decimal
		balance, ret = compoundMonth(balance, rate, pe.MonthlyContribution)
		points = append(points, domain.ProjectionPoint{
			Month:         m,
			Date:          dateutil.AddMonths(pe.StartDate, m),
			Value:         balance,
			MonthlyReturn: ret,
			Contribution:  pe.MonthlyContribution,
			CanRetire:     balance.GreaterThanOrEqual(pe.RequiredValue),
		})
	}
	return points
}

// FirstGoalMonth returns the first simulated month whose balance reaches the
// required value within the horizon.
func (pe *ProjectionEngine) FirstGoalMonth(horizon int) (domain.ProjectionPoint, bool) {
	for _, p := range pe.Generate(horizon) {
		if p.CanRetire {
			return p, true
		}
	}
	return domain.ProjectionPoint{}, false
}

// TotalContributions sums the contributions of a trajectory
func TotalContributions(points []domain.ProjectionPoint) decimal.Decimal {
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.Contribution)
	}
	return total
}

// TotalReturns sums the investment returns of a trajectory
func TotalReturns(points []domain.ProjectionPoint) decimal.Decimal {
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.MonthlyReturn)
	}
	return total
}
