package output

import (
	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
)

// IncomeSeries holds one stacked area per income bucket
type IncomeSeries struct {
	Salary          []Point `json:"salary"`
	StatePension    []Point `json:"state_pension"`
	PrivatePensions []Point `json:"private_pensions"`
	Other           []Point `json:"other"`
}

// MilestoneMarker is an income event drawn on the timeline
type MilestoneMarker struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Amount      *string `json:"amount"`
}

// GapPeriodData is the shaded window without guaranteed income
type GapPeriodData struct {
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Months           int    `json:"months"`
	MonthlyShortfall string `json:"monthly_shortfall"`
	TotalNeeded      string `json:"total_needed"`
	CanBridge        bool   `json:"can_bridge"`
}

// IncomeTimelineMetadata summarises the timeline for chart captions
type IncomeTimelineMetadata struct {
	Currency            string  `json:"currency"`
	CurrencySymbol      string  `json:"currency_symbol"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	Years               int     `json:"years"`
	HasGap              bool    `json:"has_gap"`
	IncomeToday         string  `json:"income_today"`
	IncomeAtRetirement  *string `json:"income_at_retirement"`
	IncomeAtFullPension string  `json:"income_at_full_pension"`
	MonthlyExpenses     *string `json:"monthly_expenses"`
}

// IncomeTimelineChart is the stacked income chart payload
type IncomeTimelineChart struct {
	Series       IncomeSeries           `json:"series"`
	Milestones   []MilestoneMarker      `json:"milestones"`
	GapPeriod    *GapPeriodData         `json:"gap_period"`
	ExpensesLine []Point                `json:"expenses_line"`
	Metadata     IncomeTimelineMetadata `json:"metadata"`
}

// BuildIncomeTimelineChart charts monthly income by bucket over years,
// starting at the scenario's calculation date. A non-positive years value
// uses calculation.DefaultTimelineYears.
func BuildIncomeTimelineChart(s *domain.Scenario, years int) IncomeTimelineChart {
	if years <= 0 {
		years = calculation.DefaultTimelineYears
	}
	ta := calculation.NewIncomeTimelineAnalyzer(s)
	a := amountsFor(s.CurrencyCode())

	rows := ta.GenerateIncomeTimeline(years)
	chart := IncomeTimelineChart{
		Series: IncomeSeries{
			Salary:          make([]Point, 0, len(rows)),
			StatePension:    make([]Point, 0, len(rows)),
			PrivatePensions: make([]Point, 0, len(rows)),
			Other:           make([]Point, 0, len(rows)),
		},
		Milestones:   milestoneMarkers(a, ta.IncomeMilestones()),
		ExpensesLine: make([]Point, 0, len(rows)),
	}
	for _, r := range rows {
		chart.Series.Salary = append(chart.Series.Salary, a.point(r.Date, r.Income.Salary))
		chart.Series.StatePension = append(chart.Series.StatePension, a.point(r.Date, r.Income.StatePension))
		chart.Series.PrivatePensions = append(chart.Series.PrivatePensions, a.point(r.Date, r.Income.PrivatePensions))
		chart.Series.Other = append(chart.Series.Other, a.point(r.Date, r.Income.Other))
		chart.ExpensesLine = append(chart.ExpensesLine, a.point(r.Date, r.Expenses))
	}

	chart.GapPeriod = gapPeriodData(a, ta)

	start := s.CalculationDate
	if start.IsZero() {
		start = calculation.Today()
	}
	chart.Metadata = IncomeTimelineMetadata{
		Currency:            a.cur.Code(),
		CurrencySymbol:      a.cur.Symbol(),
		StartDate:           dateutil.Format(start),
		EndDate:             dateutil.Format(dateutil.AddMonths(start, years*12)),
		Years:               years,
		HasGap:              chart.GapPeriod != nil,
		IncomeToday:         a.of(ta.IncomeAtToday()),
		IncomeAtRetirement:  a.ptr(ta.IncomeAtRetirement()),
		IncomeAtFullPension: a.of(ta.IncomeAtFullPension()),
		MonthlyExpenses:     a.ptr(s.MonthlyRetirementExpenses),
	}
	return chart
}

func gapPeriodData(a amounts, ta *calculation.IncomeTimelineAnalyzer) *GapPeriodData {
	gap := ta.GapPeriod()
	if gap == nil {
		return nil
	}
	return &GapPeriodData{
		StartDate:        dateutil.Format(gap.StartDate),
		EndDate:          dateutil.Format(gap.EndDate),
		Months:           gap.Months,
		MonthlyShortfall: a.of(gap.MonthlyShortfall),
		TotalNeeded:      a.of(ta.GapBridgeAmount()),
		CanBridge:        ta.CanBridgeGap(),
	}
}

func milestoneMarkers(a amounts, ms []domain.IncomeMilestone) []MilestoneMarker {
	out := make([]MilestoneMarker, 0, len(ms))
	for _, m := range ms {
		out = append(out, MilestoneMarker{
			Date:        dateutil.Format(m.Date),
			Type:        string(m.Type),
			Label:       m.Label,
			Description: m.Description,
			Amount:      a.ptr(m.Amount),
		})
	}
	return out
}
