package output

import (
	"fmt"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	minChartMonths = 12
	maxChartMonths = 360
	// a year marker is placed every five years
	yearMarkerInterval = 60
)

// PortfolioSeries holds the balance and its cumulative composition
type PortfolioSeries struct {
	Portfolio     []Point `json:"portfolio"`
	Contributions []Point `json:"contributions"`
	Returns       []Point `json:"returns"`
}

// ProjectionMarker is a labelled point on the projection chart
type ProjectionMarker struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
}

// ProjectionMetadata summarises the projection for chart captions
type ProjectionMetadata struct {
	Currency            string  `json:"currency"`
	CurrencySymbol      string  `json:"currency_symbol"`
	StartDate           string  `json:"start_date,omitempty"`
	EndDate             string  `json:"end_date,omitempty"`
	Months              int     `json:"months,omitempty"`
	Years               string  `json:"years,omitempty"`
	HasData             bool    `json:"has_data"`
	StartingValue       string  `json:"starting_value,omitempty"`
	FinalValue          string  `json:"final_value,omitempty"`
	TotalContributions  string  `json:"total_contributions,omitempty"`
	TotalReturns        string  `json:"total_returns,omitempty"`
	RequiredPortfolio   string  `json:"required_portfolio,omitempty"`
	CanRetireNow        bool    `json:"can_retire_now"`
	// RetirementMonth is the 1-based month of the first projected point at
	// or above the required portfolio; month 1 is one month after the start
	// date. Year markers share this numbering and fall on months 60, 120, ...
	RetirementMonth     *int    `json:"retirement_month"`
	GrowthRate          string  `json:"growth_rate,omitempty"`
	InflationRate       string  `json:"inflation_rate,omitempty"`
	RealGrowthRate      *string `json:"real_growth_rate"`
	MonthlyContribution string  `json:"monthly_contribution,omitempty"`
}

// PortfolioProjectionChart is the growth chart payload
type PortfolioProjectionChart struct {
	Series            PortfolioSeries    `json:"series"`
	StartingValue     string             `json:"starting_value"`
	Milestones        []ProjectionMarker `json:"milestones"`
	RequiredPortfolio string             `json:"required_portfolio"`
	Metadata          ProjectionMetadata `json:"metadata"`
}

// ChartMonths resolves the projection horizon. Without an explicit value it
// is the number of months until the projected retirement date (360 when
// unknown) clamped to [12, 360]. Explicit values are capped at the
// retirement search horizon.
func ChartMonths(s *domain.Scenario, months int) int {
	if months > 0 {
		return min(months, calculation.RetirementSearchMonths)
	}
	m, ok := calculation.MonthsUntilRetirement(s)
	if !ok {
		m = maxChartMonths
	}
	return max(minChartMonths, min(m, maxChartMonths))
}

// BuildPortfolioProjectionChart charts the month-by-month projection of a
// recalculated scenario. An incomplete scenario yields an empty chart.
func BuildPortfolioProjectionChart(s *domain.Scenario, medianMonthlySurplus *decimal.Decimal, months int) PortfolioProjectionChart {
	a := amountsFor(s.CurrencyCode())
	chart := PortfolioProjectionChart{
		Series: PortfolioSeries{
			Portfolio:     []Point{},
			Contributions: []Point{},
			Returns:       []Point{},
		},
		StartingValue:     a.orZero(s.Metrics.CurrentPortfolioValue),
		Milestones:        []ProjectionMarker{},
		RequiredPortfolio: a.orZero(s.Metrics.RequiredPortfolioValue),
		Metadata: ProjectionMetadata{
			Currency:       a.cur.Code(),
			CurrencySymbol: a.cur.Symbol(),
		},
	}
	if s.Metrics.RequiredPortfolioValue == nil {
		return chart
	}

	months = ChartMonths(s, months)
	pe := calculation.NewProjectionEngine(s, medianMonthlySurplus)
	points := pe.Generate(months)

	contributions, returns := decimal.Zero, decimal.Zero
	for _, p := range points {
		contributions = contributions.Add(p.Contribution)
		returns = returns.Add(p.MonthlyReturn)
		chart.Series.Portfolio = append(chart.Series.Portfolio, a.point(p.Date, p.Value))
		chart.Series.Contributions = append(chart.Series.Contributions, a.point(p.Date, contributions))
		chart.Series.Returns = append(chart.Series.Returns, a.point(p.Date, returns))
	}

	canRetireNow := calculation.CanRetireNow(s)
	var retirementMonth *int
	for _, p := range points {
		if p.CanRetire {
			m := p.Month
			retirementMonth = &m
			if !canRetireNow {
				chart.Milestones = append(chart.Milestones, ProjectionMarker{
					Date:        dateutil.Format(p.Date),
					Type:        "retirement_ready",
					Label:       "Retirement Ready",
					Description: "Portfolio reaches required value",
					Value:       a.of(p.Value),
				})
			}
			break
		}
	}
	for _, p := range points {
		if p.Month%yearMarkerInterval == 0 {
			chart.Milestones = append(chart.Milestones, ProjectionMarker{
				Date:  dateutil.Format(p.Date),
				Type:  "year_marker",
				Label: fmt.Sprintf("Year %d", p.Month/12),
				Value: a.of(p.Value),
			})
		}
	}

	final := points[len(points)-1]
	chart.Metadata = ProjectionMetadata{
		Currency:            a.cur.Code(),
		CurrencySymbol:      a.cur.Symbol(),
		StartDate:           dateutil.Format(pe.StartDate),
		EndDate:             dateutil.Format(final.Date),
		Months:              months,
		Years:               percent(decimal.NewFromInt(int64(months)).Div(decimal.NewFromInt(12)), 1),
		HasData:             true,
		StartingValue:       a.of(pe.StartingValue),
		FinalValue:          a.of(final.Value),
		TotalContributions:  a.of(contributions),
		TotalReturns:        a.of(returns),
		RequiredPortfolio:   a.of(pe.RequiredValue),
		CanRetireNow:        canRetireNow,
		RetirementMonth:     retirementMonth,
		GrowthRate:          percent(s.GrowthRateOrDefault(), 2),
		InflationRate:       percent(s.InflationRateOrDefault(), 2),
		RealGrowthRate:      percentPtr(calculation.RealPortfolioGrowthRate(s), 2),
		MonthlyContribution: a.of(pe.MonthlyContribution),
	}
	return chart
}
