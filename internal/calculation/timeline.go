package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// DefaultTimelineYears is the span of the income timeline when none is given
const DefaultTimelineYears = 30

// IncomeTimelineAnalyzer derives a calendar view of a scenario's income:
// per-date breakdowns, the gap period and dated milestones.
type IncomeTimelineAnalyzer struct {
	scenario   *domain.Scenario
	aggregator *PensionAggregator
}

// NewIncomeTimelineAnalyzer creates an analyzer over the scenario's inputs
func NewIncomeTimelineAnalyzer(s *domain.Scenario) *IncomeTimelineAnalyzer {
	return &IncomeTimelineAnalyzer{scenario: s, aggregator: NewPensionAggregator(s)}
}

// IncomeBreakdownAt delegates to the pension aggregator
func (ta *IncomeTimelineAnalyzer) IncomeBreakdownAt(date time.Time) domain.IncomeBreakdown {
	return ta.aggregator.IncomeBreakdownAt(date)
}

// EarliestPensionStartDate returns the earliest start date among pensions
// with a non-zero amount. Sources without a payout do not count.
func (ta *IncomeTimelineAnalyzer) EarliestPensionStartDate() *time.Time {
	return dateutil.Earliest(ta.pensionStartDates(true)...)
}

func (ta *IncomeTimelineAnalyzer) pensionStartDates(requireAmount bool) []time.Time {
	s := ta.scenario
	var dates []time.Time

	if s.StatePensionStartDate != nil && (!requireAmount || isPositive(s.StatePensionMonthly)) {
		dates = append(dates, *s.StatePensionStartDate)
	}
	for _, src := range s.PensionSources {
		if src.HasPayout() && src.PayoutStartDate != nil {
			dates = append(dates, *src.PayoutStartDate)
		}
	}
	if s.OtherPensionStartDate != nil && (!requireAmount || isPositive(s.OtherPensionMonthly)) {
		dates = append(dates, *s.OtherPensionStartDate)
	}
	return dates
}

// GapPeriod returns the window after the salary ends and before the first
// pension starts. It is nil without a salary end date, without any pension
// start date, or when the window is empty.
func (ta *IncomeTimelineAnalyzer) GapPeriod() *domain.GapPeriod {
	s := ta.scenario
	if s.SalaryEndDate == nil {
		return nil
	}
	earliest := ta.EarliestPensionStartDate()
	if earliest == nil {
		return nil
	}

	start := dateutil.AddDays(*s.SalaryEndDate, 1)
	end := dateutil.AddDays(*earliest, -1)
	if end.Before(start) {
		return nil
	}

	// Inclusive: a gap from January through December is 12 months
	months := dateutil.MonthsBetween(start, end) + 1

	return &domain.GapPeriod{
		StartDate:        start,
		EndDate:          end,
		Months:           months,
		MonthlyShortfall: s.ExpensesOrZero(),
	}
}

// GapBridgeAmount is the cash needed to cover the whole gap, zero without a gap
func (ta *IncomeTimelineAnalyzer) GapBridgeAmount() decimal.Decimal {
	gap := ta.GapPeriod()
	if gap == nil {
		return decimal.Zero
	}
	return gap.TotalNeeded()
}

// CanBridgeGap reports whether the current portfolio covers the gap. It is
// true when there is no gap and false when the portfolio value is unknown.
func (ta *IncomeTimelineAnalyzer) CanBridgeGap() bool {
	gap := ta.GapPeriod()
	if gap == nil {
		return true
	}
	current := ta.scenario.Metrics.CurrentPortfolioValue
	if current == nil {
		return false
	}
	return current.GreaterThanOrEqual(gap.TotalNeeded())
}

// InGapPeriod reports whether date lies inside the gap window
func (ta *IncomeTimelineAnalyzer) InGapPeriod(date time.Time) bool {
	gap := ta.GapPeriod()
	return gap != nil && gap.Contains(date)
}

// IncomeMilestones lists the dated income events in ascending date order.
// Events on the same date keep their construction order.
func (ta *IncomeTimelineAnalyzer) IncomeMilestones() []domain.IncomeMilestone {
	s := ta.scenario
	var ms []domain.IncomeMilestone

	if s.SalaryEndDate != nil {
		ms = append(ms, domain.IncomeMilestone{
			Date:        *s.SalaryEndDate,
			Type:        domain.MilestoneSalaryEnd,
			Label:       "Salary ends",
			Description: "Last month of salary income",
		})
	}

	if s.StatePensionStartDate != nil && isPositive(s.StatePensionMonthly) {
		ms = append(ms, domain.IncomeMilestone{
			Date:        *s.StatePensionStartDate,
			Type:        domain.MilestoneStatePensionStart,
			Label:       "State pension starts",
			Description: "Gesetzliche Rente begins",
			Amount:      domain.DecimalPtr(*s.StatePensionMonthly),
		})
	}

	for _, src := range s.PensionSources {
		if !src.HasPayout() || src.PayoutStartDate == nil {
			continue
		}
		ms = append(ms, domain.IncomeMilestone{
			Date:        *src.PayoutStartDate,
			Type:        domain.MilestonePrivatePensionStart,
			Label:       fmt.Sprintf("%s starts", src.Account.Name),
			Description: fmt.Sprintf("%s payments begin", src.Type().ShortLabel()),
			Amount:      domain.DecimalPtr(src.Payout()),
		})
	}

	if s.OtherPensionStartDate != nil && isPositive(s.OtherPensionMonthly) {
		ms = append(ms, domain.IncomeMilestone{
			Date:        *s.OtherPensionStartDate,
			Type:        domain.MilestoneOtherPensionStart,
			Label:       "Other pension starts",
			Description: "Additional pension income begins",
			Amount:      domain.DecimalPtr(*s.OtherPensionMonthly),
		})
	}

	if gap := ta.GapPeriod(); gap != nil {
		ms = append(ms,
			domain.IncomeMilestone{
				Date:        gap.StartDate,
				Type:        domain.MilestoneGapStart,
				Label:       "Gap period starts",
				Description: "No income - portfolio bridge needed",
				Months:      gap.Months,
			},
			domain.IncomeMilestone{
				Date:        gap.EndDate,
				Type:        domain.MilestoneGapEnd,
				Label:       "Gap period ends",
				Description: "Pension income begins",
			},
		)
	}

	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Date.Before(ms[j].Date) })
	return ms
}

// GenerateIncomeTimeline returns years*12 monthly rows starting at the
// calculation date. A non-positive years value uses DefaultTimelineYears.
func (ta *IncomeTimelineAnalyzer) GenerateIncomeTimeline(years int) []domain.TimelineRow {
	if years <= 0 {
		years = DefaultTimelineYears
	}
	start := ta.startDate()
	expenses := ta.scenario.ExpensesOrZero()
	gap := ta.GapPeriod()

	rows := make([]domain.TimelineRow, 0, years*12)
	for i := 0; i < years*12; i++ {
		date := dateutil.AddMonths(start, i)
		b := ta.aggregator.IncomeBreakdownAt(date)
		total := b.Total()
		rows = append(rows, domain.TimelineRow{
			Date:           date,
			Income:         b,
			TotalIncome:    total,
			Expenses:       expenses,
			SurplusDeficit: total.Sub(expenses),
			InGapPeriod:    gap != nil && gap.Contains(date),
		})
	}
	return rows
}

// IncomeAtToday is the total income active today
func (ta *IncomeTimelineAnalyzer) IncomeAtToday() decimal.Decimal {
	return ta.aggregator.ProjectIncomeAt(Today())
}

// IncomeAtRetirement is the income on the day after the salary ends, nil
// without a salary end date.
func (ta *IncomeTimelineAnalyzer) IncomeAtRetirement() *decimal.Decimal {
	if ta.scenario.SalaryEndDate == nil {
		return nil
	}
	return domain.DecimalPtr(ta.aggregator.ProjectIncomeAt(dateutil.AddDays(*ta.scenario.SalaryEndDate, 1)))
}

// IncomeAtFullPension is the income on the latest pension start date, or the
// total pension income when no start dates are known.
func (ta *IncomeTimelineAnalyzer) IncomeAtFullPension() decimal.Decimal {
	latest := dateutil.Latest(ta.pensionStartDates(false)...)
	if latest == nil {
		return ta.aggregator.TotalNow()
	}
	return ta.aggregator.ProjectIncomeAt(*latest)
}

func (ta *IncomeTimelineAnalyzer) startDate() time.Time {
	if ta.scenario.CalculationDate.IsZero() {
		return Today()
	}
	return ta.scenario.CalculationDate
}

func isPositive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}
