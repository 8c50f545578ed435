package output

import (
	"sort"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
)

// HistoryPoint is one snapshot's actual value and progress
type HistoryPoint struct {
	Date            string `json:"date"`
	Value           string `json:"value"`
	ProgressPercent string `json:"progress_percent"`
}

// HistorySeries holds actual, projected and required values per snapshot.
// Snapshots without a projection are absent from Projected.
type HistorySeries struct {
	Actual    []HistoryPoint `json:"actual"`
	Projected []Point        `json:"projected"`
	Required  []Point        `json:"required"`
}

// CurrentPoint is today's state, appended after the last snapshot
type CurrentPoint struct {
	Date            string  `json:"date"`
	ActualValue     string  `json:"actual_value"`
	ProjectedValue  *string `json:"projected_value"`
	RequiredValue   string  `json:"required_value"`
	ProgressPercent string  `json:"progress_percent"`
}

// HistoryMetadata describes the latest snapshot's tracking
type HistoryMetadata struct {
	Currency                 string  `json:"currency"`
	CurrencySymbol           string  `json:"currency_symbol"`
	HasData                  bool    `json:"has_data"`
	SnapshotCount            int     `json:"snapshot_count"`
	FirstSnapshotDate        string  `json:"first_snapshot_date,omitempty"`
	LatestSnapshotDate       string  `json:"latest_snapshot_date,omitempty"`
	TrackingStatus           string  `json:"tracking_status,omitempty"`
	TrackingStatusLabel      string  `json:"tracking_status_label,omitempty"`
	PortfolioVariance        *string `json:"portfolio_variance"`
	PortfolioVariancePercent *string `json:"portfolio_variance_percent"`
	AssumedGrowthRate        *string `json:"assumed_growth_rate"`
	ActualGrowthRate         *string `json:"actual_growth_rate"`
	GrowthRateVariance       *string `json:"growth_rate_variance"`
}

// SnapshotHistoryChart is the progress-over-time chart payload
type SnapshotHistoryChart struct {
	Series       HistorySeries   `json:"series"`
	CurrentPoint *CurrentPoint   `json:"current_point"`
	Metadata     HistoryMetadata `json:"metadata"`
}

// BuildSnapshotHistoryChart charts a scenario's snapshots in date order. The
// current point is omitted when the latest snapshot was taken today.
func BuildSnapshotHistoryChart(s *domain.Scenario, snapshots []domain.Snapshot) SnapshotHistoryChart {
	a := amountsFor(s.CurrencyCode())
	chart := SnapshotHistoryChart{
		Series: HistorySeries{
			Actual:    make([]HistoryPoint, 0, len(snapshots)),
			Projected: make([]Point, 0, len(snapshots)),
			Required:  make([]Point, 0, len(snapshots)),
		},
		Metadata: HistoryMetadata{
			Currency:       a.cur.Code(),
			CurrencySymbol: a.cur.Symbol(),
		},
	}
	if len(snapshots) == 0 {
		return chart
	}

	snaps := append([]domain.Snapshot(nil), snapshots...)
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].SnapshotDate.Before(snaps[j].SnapshotDate) })

	for _, snap := range snaps {
		date := dateutil.Format(snap.SnapshotDate)
		progress := "0.0"
		if snap.ProgressPercent != nil {
			progress = percent(*snap.ProgressPercent, 1)
		}
		chart.Series.Actual = append(chart.Series.Actual, HistoryPoint{
			Date:            date,
			Value:           a.orZero(snap.CurrentPortfolioValue),
			ProgressPercent: progress,
		})
		if snap.ProjectedPortfolioValue != nil {
			chart.Series.Projected = append(chart.Series.Projected, Point{Date: date, Value: a.of(*snap.ProjectedPortfolioValue)})
		}
		chart.Series.Required = append(chart.Series.Required, Point{Date: date, Value: a.orZero(snap.RequiredPortfolioValue)})
	}

	first, latest := snaps[0], snaps[len(snaps)-1]
	today := calculation.Today()
	if !latest.SnapshotDate.Equal(today) {
		chart.CurrentPoint = &CurrentPoint{
			Date:            dateutil.Format(today),
			ActualValue:     a.orZero(s.Metrics.CurrentPortfolioValue),
			ProjectedValue:  a.ptr(calculation.ProjectedValueAt(latest, today)),
			RequiredValue:   a.orZero(s.Metrics.RequiredPortfolioValue),
			ProgressPercent: percent(calculation.ProgressPercent(s), 1),
		}
	}

	status := calculation.TrackingStatus(latest)
	chart.Metadata = HistoryMetadata{
		Currency:                 a.cur.Code(),
		CurrencySymbol:           a.cur.Symbol(),
		HasData:                  true,
		SnapshotCount:            len(snaps),
		FirstSnapshotDate:        dateutil.Format(first.SnapshotDate),
		LatestSnapshotDate:       dateutil.Format(latest.SnapshotDate),
		TrackingStatus:           string(status),
		TrackingStatusLabel:      status.Label(),
		PortfolioVariance:        a.ptr(calculation.PortfolioVariance(latest)),
		PortfolioVariancePercent: percentPtr(calculation.PortfolioVariancePercent(latest), 2),
	}
	if acc := calculation.AssumptionAccuracySummary(snaps); acc != nil {
		chart.Metadata.AssumedGrowthRate = percentPtr(acc.AssumedGrowthRate, 2)
		chart.Metadata.ActualGrowthRate = percentPtr(acc.ActualGrowthRate, 2)
		chart.Metadata.GrowthRateVariance = percentPtr(acc.GrowthRateVariance, 2)
	}
	return chart
}
