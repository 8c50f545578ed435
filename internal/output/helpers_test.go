package output

import (
	"testing"
	"time"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal { return domain.DecimalPtr(dec(s)) }

func day(y int, m time.Month, d int) time.Time { return dateutil.Date(y, m, d) }

func dayp(y int, m time.Month, d int) *time.Time { return domain.TimePtr(day(y, m, d)) }

func fixedToday(t *testing.T, date time.Time) {
	t.Helper()
	calculation.SetNowFunc(func() time.Time { return date.Add(8 * time.Hour) })
	t.Cleanup(func() { calculation.SetNowFunc(time.Now) })
}

func recalculate(t *testing.T, s *domain.Scenario, netWorth string) *domain.Scenario {
	t.Helper()
	err := calculation.NewScenarioCalculator().Recalculate(s, calculation.Inputs{
		CurrentNetWorth: dec(netWorth),
		AsOf:            s.CalculationDate,
	})
	require.NoError(t, err)
	return s
}

// steadyScenario saves 1500 a month without growth toward a 450000 target,
// so the goal is reached after exactly 150 months.
func steadyScenario(t *testing.T) *domain.Scenario {
	s := domain.NewScenario("Steady saver", day(2025, time.January, 1))
	s.MonthlyRetirementExpenses = decp("3000")
	s.StatePensionMonthly = decp("1500")
	s.PortfolioGrowthRate = decp("0")
	s.MonthlyContribution = decp("1500")
	return recalculate(t, s, "225000")
}

// gapScenario has a one-year gap between salary end and state pension
func gapScenario(t *testing.T) *domain.Scenario {
	s := domain.NewScenario("With gap", day(2040, time.November, 1))
	s.MonthlyRetirementExpenses = decp("4000")
	s.CurrentAnnualSalary = decp("72000")
	s.SalaryEndDate = dayp(2040, time.December, 31)
	s.StatePensionMonthly = decp("1500")
	s.StatePensionStartDate = dayp(2042, time.January, 1)
	return recalculate(t, s, "40000")
}
