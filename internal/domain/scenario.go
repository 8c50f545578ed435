package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default assumptions applied to new scenarios
var (
	DefaultWithdrawalRate = decimal.NewFromFloat(4.0)
	DefaultGrowthRate     = decimal.NewFromFloat(7.0)
	DefaultInflationRate  = decimal.NewFromFloat(3.0)
)

// DefaultScenarioName is used when a scenario is created without a name.
const DefaultScenarioName = "My Retirement Plan"

// Scenario is the unit of planning: household expenses, guaranteed income
// streams and portfolio assumptions, plus the outputs last computed from them.
// Rates are percentages (4.0 means 4%). Amounts are monthly unless named otherwise.
type Scenario struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Currency        string    `json:"currency"`
	IsPrimary       bool      `json:"is_primary"`
	CalculationDate time.Time `json:"calculation_date"`

	MonthlyRetirementExpenses *decimal.Decimal `json:"monthly_retirement_expenses,omitempty"`
	WithdrawalRate            *decimal.Decimal `json:"withdrawal_rate,omitempty"`
	PortfolioGrowthRate       *decimal.Decimal `json:"portfolio_growth_rate,omitempty"`
	InflationRate             *decimal.Decimal `json:"inflation_rate,omitempty"`
	MonthlyContribution       *decimal.Decimal `json:"monthly_contribution,omitempty"`

	// Salary
	CurrentAnnualSalary *decimal.Decimal `json:"current_annual_salary,omitempty"`
	SalaryEndDate       *time.Time       `json:"salary_end_date,omitempty"`

	// State pension (gesetzliche Rente)
	StatePensionMonthly   *decimal.Decimal `json:"state_pension_monthly,omitempty"`
	StatePensionStartDate *time.Time       `json:"state_pension_start_date,omitempty"`

	// Legacy manual entries, superseded per type by linked pension sources
	RiesterMonthly       *decimal.Decimal `json:"riester_monthly,omitempty"`
	RuerupMonthly        *decimal.Decimal `json:"ruerup_monthly,omitempty"`
	BetriebsrenteMonthly *decimal.Decimal `json:"betriebsrente_monthly,omitempty"`

	OtherPensionMonthly   *decimal.Decimal `json:"other_pension_monthly,omitempty"`
	OtherPensionStartDate *time.Time       `json:"other_pension_start_date,omitempty"`

	PensionSources []PensionSource `json:"pension_sources,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// Metrics are the computed outputs of a scenario. All fields are nil until
// the scenario has been recalculated with complete inputs.
type Metrics struct {
	TotalPensionIncome      *decimal.Decimal `json:"total_pension_income"`
	IncomeGapMonthly        *decimal.Decimal `json:"income_gap_monthly"`
	RequiredPortfolioValue  *decimal.Decimal `json:"required_portfolio_value"`
	CurrentPortfolioValue   *decimal.Decimal `json:"current_portfolio_value"`
	PortfolioGap            *decimal.Decimal `json:"portfolio_gap"`
	ProjectedRetirementDate *time.Time       `json:"projected_retirement_date"`
}

// NewScenario returns a scenario with the default assumptions filled in.
func NewScenario(name string, calculationDate time.Time) *Scenario {
	if name == "" {
		name = DefaultScenarioName
	}
	w, g, i := DefaultWithdrawalRate, DefaultGrowthRate, DefaultInflationRate
	return &Scenario{
		ID:                  uuid.New(),
		Name:                name,
		Currency:            "EUR",
		CalculationDate:     calculationDate,
		WithdrawalRate:      &w,
		PortfolioGrowthRate: &g,
		InflationRate:       &i,
	}
}

// AddPensionSource links a pension source, rejecting a second source for the same account.
func (s *Scenario) AddPensionSource(src PensionSource) error {
	if err := src.Validate(); err != nil {
		return err
	}
	for _, existing := range s.PensionSources {
		if existing.Account.ID == src.Account.ID {
			return fmt.Errorf("%w: %s", ErrDuplicatePensionSource, src.Account.Name)
		}
	}
	s.PensionSources = append(s.PensionSources, src)
	return nil
}

// BuildPensionSourcesForAccounts links every pension account of a known type
// that the scenario does not link yet. Accounts already linked are skipped;
// any other linking error stops the build. It returns the number of sources
// added.
func (s *Scenario) BuildPensionSourcesForAccounts(accounts []PensionAccount) (int, error) {
	added := 0
	for _, acc := range accounts {
		if !acc.Type.Valid() {
			continue
		}
		err := s.AddPensionSource(NewPensionSource(acc, nil, nil))
		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrDuplicatePensionSource):
		default:
			return added, fmt.Errorf("account %s: %w", acc.Name, err)
		}
	}
	return added, nil
}

// LinkedPensionTypes returns the set of pension types that have at least one
// linked source, regardless of payout.
func (s *Scenario) LinkedPensionTypes() map[PensionType]bool {
	types := make(map[PensionType]bool, len(s.PensionSources))
	for _, src := range s.PensionSources {
		types[src.Type()] = true
	}
	return types
}

// LegacyPensions returns the manual per-type pension amounts that are set.
func (s *Scenario) LegacyPensions() map[PensionType]decimal.Decimal {
	out := make(map[PensionType]decimal.Decimal, 3)
	for t, v := range map[PensionType]*decimal.Decimal{
		PensionTypeRiester:       s.RiesterMonthly,
		PensionTypeRuerup:        s.RuerupMonthly,
		PensionTypeBetriebsrente: s.BetriebsrenteMonthly,
	} {
		if v != nil {
			out[t] = *v
		}
	}
	return out
}

// CurrencyCode returns the ISO currency code, EUR when blank.
func (s *Scenario) CurrencyCode() string {
	if s.Currency == "" {
		return "EUR"
	}
	return s.Currency
}

// Rate helpers return the configured percentage or the documented default.

func (s *Scenario) WithdrawalRateOrDefault() decimal.Decimal {
	return valueOr(s.WithdrawalRate, DefaultWithdrawalRate)
}

func (s *Scenario) GrowthRateOrDefault() decimal.Decimal {
	return valueOr(s.PortfolioGrowthRate, DefaultGrowthRate)
}

func (s *Scenario) InflationRateOrDefault() decimal.Decimal {
	return valueOr(s.InflationRate, DefaultInflationRate)
}

// ExpensesOrZero returns the monthly expenses, zero when unset.
func (s *Scenario) ExpensesOrZero() decimal.Decimal {
	return valueOr(s.MonthlyRetirementExpenses, decimal.Zero)
}

// DecimalPtr returns a pointer to a copy of d.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// TimePtr returns a pointer to a copy of t.
func TimePtr(t time.Time) *time.Time { return &t }

func valueOr(p *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if p == nil {
		return def
	}
	return *p
}
