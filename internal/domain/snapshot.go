package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrackingStatus classifies actual against previously projected portfolio value.
type TrackingStatus string

const (
	TrackingAhead        TrackingStatus = "ahead"
	TrackingBehind       TrackingStatus = "behind"
	TrackingOnTrack      TrackingStatus = "on_track"
	TrackingNoProjection TrackingStatus = "no_projection"
)

// Label returns the display label of the status
func (s TrackingStatus) Label() string {
	switch s {
	case TrackingAhead:
		return "Ahead of projection"
	case TrackingBehind:
		return "Behind projection"
	case TrackingOnTrack:
		return "On track"
	default:
		return "No projection data"
	}
}

// Snapshot is an immutable capture of a scenario's outputs and the
// assumptions in force on SnapshotDate. (ScenarioID, SnapshotDate) is unique.
type Snapshot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScenarioID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_scenario_date,priority:1" json:"scenario_id"`
	SnapshotDate time.Time `gorm:"not null;uniqueIndex:idx_snapshot_scenario_date,priority:2" json:"snapshot_date"`

	CurrentPortfolioValue   *decimal.Decimal `gorm:"type:numeric(20,4)" json:"current_portfolio_value"`
	RequiredPortfolioValue  *decimal.Decimal `gorm:"type:numeric(20,4)" json:"required_portfolio_value"`
	PortfolioGap            *decimal.Decimal `gorm:"type:numeric(20,4)" json:"portfolio_gap"`
	ProgressPercent         *decimal.Decimal `gorm:"type:numeric(7,2)" json:"progress_percent"`
	ProjectedRetirementDate *time.Time       `json:"projected_retirement_date"`
	TotalPensionIncome      *decimal.Decimal `gorm:"type:numeric(20,4)" json:"total_pension_income"`
	IncomeGapMonthly        *decimal.Decimal `gorm:"type:numeric(20,4)" json:"income_gap_monthly"`

	// Value predicted for SnapshotDate by the previous snapshot's assumptions
	ProjectedPortfolioValue *decimal.Decimal `gorm:"type:numeric(20,4)" json:"projected_portfolio_value"`

	GrowthRateAssumption          *decimal.Decimal `gorm:"type:numeric(7,2)" json:"growth_rate_assumption"`
	InflationRateAssumption       *decimal.Decimal `gorm:"type:numeric(7,2)" json:"inflation_rate_assumption"`
	MonthlyContributionAssumption *decimal.Decimal `gorm:"type:numeric(20,4)" json:"monthly_contribution_assumption"`
	WithdrawalRateAssumption      *decimal.Decimal `gorm:"type:numeric(7,2)" json:"withdrawal_rate_assumption"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the gorm table name
func (Snapshot) TableName() string { return "retirement_scenario_snapshots" }
