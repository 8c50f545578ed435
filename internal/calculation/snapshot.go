package calculation

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// trackingThreshold is the variance percentage beyond which a snapshot
// counts as ahead of or behind its projection.
var trackingThreshold = decimal.NewFromInt(5)

// PortfolioVariance is actual minus projected value, nil if either is missing
func PortfolioVariance(s domain.Snapshot) *decimal.Decimal {
	if s.ProjectedPortfolioValue == nil || s.CurrentPortfolioValue == nil {
		return nil
	}
	return domain.DecimalPtr(s.CurrentPortfolioValue.Sub(*s.ProjectedPortfolioValue))
}

// PortfolioVariancePercent is variance/projected*100 rounded to two places.
// It is nil when the projection is missing or not positive.
func PortfolioVariancePercent(s domain.Snapshot) *decimal.Decimal {
	if s.ProjectedPortfolioValue == nil || !s.ProjectedPortfolioValue.IsPositive() {
		return nil
	}
	v := PortfolioVariance(s)
	if v == nil {
		return nil
	}
	return domain.DecimalPtr(v.Div(*s.ProjectedPortfolioValue).Mul(hundred).Round(2))
}

// TrackingStatus classifies the snapshot against its projection
func TrackingStatus(s domain.Snapshot) domain.TrackingStatus {
	if s.ProjectedPortfolioValue == nil {
		return domain.TrackingNoProjection
	}
	pct := PortfolioVariancePercent(s)
	switch {
	case pct == nil:
		return domain.TrackingOnTrack
	case pct.GreaterThan(trackingThreshold):
		return domain.TrackingAhead
	case pct.LessThan(trackingThreshold.Neg()):
		return domain.TrackingBehind
	default:
		return domain.TrackingOnTrack
	}
}

// ActualGrowthRateSince annualizes the realized growth between prev and s:
// monthly = ratio^(1/months) - 1, annual = ((1+monthly)^12 - 1) * 100,
// rounded to two places. Months are whole calendar months and must be
// positive. Returns nil when the rate is undefined.
func ActualGrowthRateSince(s domain.Snapshot, prev *domain.Snapshot) *decimal.Decimal {
	if prev == nil || s.CurrentPortfolioValue == nil || prev.CurrentPortfolioValue == nil {
		return nil
	}
	if !prev.CurrentPortfolioValue.IsPositive() {
		return nil
	}
	months := dateutil.MonthsBetween(prev.SnapshotDate, s.SnapshotDate)
	if months <= 0 {
		return nil
	}

	ratio, _ := s.CurrentPortfolioValue.Div(*prev.CurrentPortfolioValue).Float64()
	if ratio <= 0 {
		return nil
	}
	monthly := math.Pow(ratio, 1/float64(months)) - 1
	annual := (math.Pow(1+monthly, 12) - 1) * 100
	if math.IsNaN(annual) || math.IsInf(annual, 0) {
		return nil
	}
	return domain.DecimalPtr(decimal.NewFromFloat(annual).Round(2))
}

// ProjectedValueAt grows the snapshot's portfolio value to date using the
// growth and contribution assumptions recorded on the snapshot. It is nil
// when the snapshot has no value or date falls in an earlier month.
func ProjectedValueAt(s domain.Snapshot, date time.Time) *decimal.Decimal {
	if s.CurrentPortfolioValue == nil {
		return nil
	}
	months := dateutil.MonthsBetween(s.SnapshotDate, date)
	if months < 0 {
		return nil
	}
	growth := domain.DefaultGrowthRate
	if s.GrowthRateAssumption != nil {
		growth = *s.GrowthRateAssumption
	}
	contribution := decimal.Zero
	if s.MonthlyContributionAssumption != nil {
		contribution = *s.MonthlyContributionAssumption
	}
	fv := FutureValueWithContributions(*s.CurrentPortfolioValue, growth, contribution, months)
	return domain.DecimalPtr(fv.FinalBalance.Round(2))
}

// CaptureSnapshot records a recalculated scenario's outputs and assumptions
// for date. When previous is given, the projected value for date is what
// previous's assumptions predicted; otherwise it is left unset. The
// contribution assumption falls back to the median monthly surplus.
func CaptureSnapshot(s *domain.Scenario, previous *domain.Snapshot, date time.Time, medianMonthlySurplus *decimal.Decimal, notes string) (domain.Snapshot, error) {
	if s.Metrics.RequiredPortfolioValue == nil {
		return domain.Snapshot{}, ErrIncompleteScenario
	}
	date = dateutil.Normalize(date)
	m := s.Metrics

	snap := domain.Snapshot{
		ID:                       uuid.New(),
		ScenarioID:               s.ID,
		SnapshotDate:             date,
		CurrentPortfolioValue:    copyDecimal(m.CurrentPortfolioValue),
		RequiredPortfolioValue:   copyDecimal(m.RequiredPortfolioValue),
		PortfolioGap:             copyDecimal(m.PortfolioGap),
		ProgressPercent:          domain.DecimalPtr(ProgressPercent(s)),
		TotalPensionIncome:       copyDecimal(m.TotalPensionIncome),
		IncomeGapMonthly:         copyDecimal(m.IncomeGapMonthly),
		GrowthRateAssumption:     copyDecimal(s.PortfolioGrowthRate),
		InflationRateAssumption:  copyDecimal(s.InflationRate),
		WithdrawalRateAssumption: copyDecimal(s.WithdrawalRate),
		Notes:                    notes,
	}
	if m.ProjectedRetirementDate != nil {
		snap.ProjectedRetirementDate = domain.TimePtr(*m.ProjectedRetirementDate)
	}
	switch {
	case s.MonthlyContribution != nil:
		snap.MonthlyContributionAssumption = copyDecimal(s.MonthlyContribution)
	case medianMonthlySurplus != nil:
		snap.MonthlyContributionAssumption = copyDecimal(medianMonthlySurplus)
	}
	if previous != nil && previous.SnapshotDate.Before(date) {
		snap.ProjectedPortfolioValue = ProjectedValueAt(*previous, date)
	}
	return snap, nil
}

// AssumptionAccuracy compares the growth rate assumed at the first snapshot
// with the growth actually realized up to the latest one.
type AssumptionAccuracy struct {
	AssumedGrowthRate  *decimal.Decimal `json:"assumed_growth_rate"`
	ActualGrowthRate   *decimal.Decimal `json:"actual_growth_rate"`
	GrowthRateVariance *decimal.Decimal `json:"growth_rate_variance"`
}

// AssumptionAccuracySummary evaluates chronologically ordered snapshots. It
// is nil with fewer than two snapshots.
func AssumptionAccuracySummary(snapshots []domain.Snapshot) *AssumptionAccuracy {
	if len(snapshots) < 2 {
		return nil
	}
	first, latest := snapshots[0], snapshots[len(snapshots)-1]
	acc := &AssumptionAccuracy{
		AssumedGrowthRate: copyDecimal(first.GrowthRateAssumption),
		ActualGrowthRate:  ActualGrowthRateSince(latest, &first),
	}
	if acc.AssumedGrowthRate != nil && acc.ActualGrowthRate != nil {
		acc.GrowthRateVariance = domain.DecimalPtr(acc.ActualGrowthRate.Sub(*acc.AssumedGrowthRate).Round(2))
	}
	return acc
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	return domain.DecimalPtr(*d)
}
