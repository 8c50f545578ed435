package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeBreakdown is the monthly guaranteed income active on one date
type IncomeBreakdown struct {
	Salary          decimal.Decimal `json:"salary"`
	StatePension    decimal.Decimal `json:"state_pension"`
	PrivatePensions decimal.Decimal `json:"private_pensions"`
	Other           decimal.Decimal `json:"other"`
}

// Total sums all four buckets
func (b IncomeBreakdown) Total() decimal.Decimal {
	return b.Salary.Add(b.StatePension).Add(b.PrivatePensions).Add(b.Other)
}

// GapPeriod is the window between the last salary and the first pension
// payment in which no guaranteed income is active.
type GapPeriod struct {
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Months           int             `json:"months"`
	MonthlyShortfall decimal.Decimal `json:"monthly_shortfall"`
}

// TotalNeeded is the amount required to bridge the whole gap
func (g GapPeriod) TotalNeeded() decimal.Decimal {
	return g.MonthlyShortfall.Mul(decimal.NewFromInt(int64(g.Months)))
}

// Contains reports whether date falls inside the gap window (inclusive)
func (g GapPeriod) Contains(date time.Time) bool {
	return !date.Before(g.StartDate) && !date.After(g.EndDate)
}

// MilestoneType names an income event on the timeline
type MilestoneType string

const (
	MilestoneSalaryEnd           MilestoneType = "salary_end"
	MilestoneStatePensionStart   MilestoneType = "state_pension_start"
	MilestonePrivatePensionStart MilestoneType = "private_pension_start"
	MilestoneOtherPensionStart   MilestoneType = "other_pension_start"
	MilestoneGapStart            MilestoneType = "gap_start"
	MilestoneGapEnd              MilestoneType = "gap_end"
)

// IncomeMilestone is a dated change in the household's income
type IncomeMilestone struct {
	Date        time.Time        `json:"date"`
	Type        MilestoneType    `json:"type"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Months      int              `json:"months,omitempty"`
}

// TimelineRow is one month of the income timeline
type TimelineRow struct {
	Date           time.Time       `json:"date"`
	Income         IncomeBreakdown `json:"income"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	Expenses       decimal.Decimal `json:"expenses"`
	SurplusDeficit decimal.Decimal `json:"surplus_deficit"`
	InGapPeriod    bool            `json:"in_gap_period"`
}

// ProjectionPoint is one simulated month of portfolio growth
type ProjectionPoint struct {
	Month         int             `json:"month"`
	Date          time.Time       `json:"date"`
	Value         decimal.Decimal `json:"value"`
	MonthlyReturn decimal.Decimal `json:"monthly_return"`
	Contribution  decimal.Decimal `json:"contribution"`
	CanRetire     bool            `json:"can_retire"`
}
