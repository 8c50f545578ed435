package calculation

import (
	"testing"
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal { return domain.DecimalPtr(dec(s)) }

func day(y int, m time.Month, d int) time.Time { return dateutil.Date(y, m, d) }

func dayp(y int, m time.Month, d int) *time.Time { return domain.TimePtr(day(y, m, d)) }

// fixedToday pins Today() for the duration of the test
func fixedToday(t *testing.T, date time.Time) {
	t.Helper()
	SetNowFunc(func() time.Time { return date.Add(10 * time.Hour) })
	t.Cleanup(func() { SetNowFunc(time.Now) })
}

// gapScenario is a salaried household with a one-year gap before the state pension
func gapScenario() *domain.Scenario {
	s := domain.NewScenario("With gap", day(2040, time.November, 1))
	s.MonthlyRetirementExpenses = decp("4000")
	s.CurrentAnnualSalary = decp("72000")
	s.SalaryEndDate = dayp(2040, time.December, 31)
	s.StatePensionMonthly = decp("1500")
	s.StatePensionStartDate = dayp(2042, time.January, 1)
	return s
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("expected %s, got %s", want, got.String())
	}
}
