package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	rpdecimal "github.com/rpgo/retirement-planner/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Summary is the headline view of a recalculated scenario. Amounts are
// rounded to the currency's minor unit and nil when not computed.
type Summary struct {
	Scenario                string           `json:"scenario"`
	Currency                string           `json:"currency"`
	CalculationDate         string           `json:"calculation_date"`
	MonthlyExpenses         *decimal.Decimal `json:"monthly_expenses"`
	TotalPensionIncome      *decimal.Decimal `json:"total_pension_income"`
	IncomeGapMonthly        *decimal.Decimal `json:"income_gap_monthly"`
	RequiredPortfolioValue  *decimal.Decimal `json:"required_portfolio_value"`
	CurrentPortfolioValue   *decimal.Decimal `json:"current_portfolio_value"`
	PortfolioGap            *decimal.Decimal `json:"portfolio_gap"`
	ProgressPercent         decimal.Decimal  `json:"progress_percent"`
	PensionCoveragePercent  decimal.Decimal  `json:"pension_coverage_percent"`
	ProjectedRetirementDate *string          `json:"projected_retirement_date"`
	MonthsUntilRetirement   *int             `json:"months_until_retirement"`
	CanRetireNow            bool             `json:"can_retire_now"`
	PensionSelfSufficient   bool             `json:"pension_self_sufficient"`
}

// LoanSummary is the repayment status of one private loan
type LoanSummary struct {
	Name                string           `json:"name"`
	RepaymentType       string           `json:"repayment_type"`
	RepaymentLabel      string           `json:"repayment_label"`
	RateLabel           string           `json:"rate_label"`
	Principal           decimal.Decimal  `json:"principal"`
	Outstanding         decimal.Decimal  `json:"outstanding"`
	InterestRate        *decimal.Decimal `json:"interest_rate"`
	MonthlyPayment      *decimal.Decimal `json:"monthly_payment"`
	TotalInterest       *decimal.Decimal `json:"total_interest"`
	TotalRepayment      *decimal.Decimal `json:"total_repayment"`
	ProgressPercent     decimal.Decimal  `json:"progress_percent"`
	MaturityDate        *string          `json:"maturity_date"`
	MonthsUntilMaturity *decimal.Decimal `json:"months_until_maturity"`
	ElapsedMonths       *decimal.Decimal `json:"elapsed_months"`
	PastDue             bool             `json:"past_due"`
}

// BausparSummary is the savings and allocation status of one contract
type BausparSummary struct {
	Name                         string           `json:"name"`
	Phase                        string           `json:"phase"`
	PhaseDescription             string           `json:"phase_description"`
	Bausparsumme                 decimal.Decimal  `json:"bausparsumme"`
	Balance                      decimal.Decimal  `json:"balance"`
	SavingsTarget                decimal.Decimal  `json:"savings_target"`
	SavingsProgressPercent       decimal.Decimal  `json:"savings_progress_percent"`
	AvailableLoanAmount          decimal.Decimal  `json:"available_loan_amount"`
	SuggestedMonthlyContribution decimal.Decimal  `json:"suggested_monthly_contribution"`
	AllocationReady              bool             `json:"allocation_ready"`
	MonthsUntilMinimumPeriod     int              `json:"months_until_minimum_period"`
	YearsUntilAllocation         *decimal.Decimal `json:"years_until_allocation"`
	ContractDurationYears        *decimal.Decimal `json:"contract_duration_years"`
	Subsidies                    []string         `json:"subsidies"`
}

// Report is everything the formatters render for one scenario.
type Report struct {
	Summary     Summary              `json:"summary"`
	Assumptions []string             `json:"assumptions"`
	GapPeriod   *GapPeriodData       `json:"gap_period"`
	Milestones  []MilestoneMarker    `json:"milestones"`
	Loans       []LoanSummary        `json:"loans,omitempty"`
	Bauspar     []BausparSummary     `json:"bauspar_contracts,omitempty"`
	Timeline    []domain.TimelineRow `json:"-"`
}

func (r *Report) currency() rpdecimal.Currency {
	return rpdecimal.CurrencyOf(r.Summary.Currency)
}

// BuildReport summarises a recalculated scenario with a monthly income
// timeline of timelineYears (calculation.DefaultTimelineYears when not positive).
func BuildReport(s *domain.Scenario, timelineYears int) *Report {
	cur := rpdecimal.CurrencyOf(s.CurrencyCode())
	a := amounts{cur: cur}
	round := func(d *decimal.Decimal) *decimal.Decimal {
		if d == nil {
			return nil
		}
		return domain.DecimalPtr(cur.Round(*d))
	}
	m := s.Metrics

	summary := Summary{
		Scenario:                s.Name,
		Currency:                cur.Code(),
		CalculationDate:         dateutil.Format(s.CalculationDate),
		MonthlyExpenses:         round(s.MonthlyRetirementExpenses),
		TotalPensionIncome:      round(m.TotalPensionIncome),
		IncomeGapMonthly:        round(m.IncomeGapMonthly),
		RequiredPortfolioValue:  round(m.RequiredPortfolioValue),
		CurrentPortfolioValue:   round(m.CurrentPortfolioValue),
		PortfolioGap:            round(m.PortfolioGap),
		ProgressPercent:         calculation.ProgressPercent(s),
		PensionCoveragePercent:  calculation.PensionCoveragePercent(s),
		ProjectedRetirementDate: datePtr(m.ProjectedRetirementDate),
		CanRetireNow:            calculation.CanRetireNow(s),
		PensionSelfSufficient:   calculation.PensionSelfSufficient(s),
	}
	if months, ok := calculation.MonthsUntilRetirement(s); ok {
		summary.MonthsUntilRetirement = &months
	}

	ta := calculation.NewIncomeTimelineAnalyzer(s)
	r := &Report{
		Summary:     summary,
		Assumptions: Assumptions(s),
		Milestones:  milestoneMarkers(a, ta.IncomeMilestones()),
		Timeline:    ta.GenerateIncomeTimeline(timelineYears),
		GapPeriod:   gapPeriodData(a, ta),
	}
	return r
}

// AddLoan appends a private loan's status as of today
func (r *Report) AddLoan(name string, l calculation.PrivateLoan, today time.Time) {
	cur := r.currency()
	if l.RepaymentType == "" {
		l.RepaymentType = calculation.RepaymentAnnuity
	}
	roundPtr := func(d *decimal.Decimal) *decimal.Decimal {
		if d == nil {
			return nil
		}
		return domain.DecimalPtr(cur.Round(*d))
	}
	r.Loans = append(r.Loans, LoanSummary{
		Name:                name,
		RepaymentType:       string(l.RepaymentType),
		RepaymentLabel:      l.RepaymentType.Description(),
		RateLabel:           l.RateType.Description(),
		Principal:           cur.Round(l.Principal),
		Outstanding:         cur.Round(l.Outstanding),
		InterestRate:        l.InterestRate,
		MonthlyPayment:      roundPtr(l.MonthlyPayment()),
		TotalInterest:       roundPtr(l.TotalInterest()),
		TotalRepayment:      roundPtr(l.TotalRepayment()),
		ProgressPercent:     l.RepaymentProgressPercent(),
		MaturityDate:        datePtr(l.MaturityDate),
		MonthsUntilMaturity: l.MonthsUntilMaturity(today),
		ElapsedMonths:       l.ElapsedMonths(today),
		PastDue:             l.PastDue(today),
	})
}

// AddBauspar appends a Bauspar contract's status as of today
func (r *Report) AddBauspar(name string, b calculation.BausparContract, today time.Time) {
	cur := r.currency()
	subsidies := b.ActiveSubsidies()
	if subsidies == nil {
		subsidies = []string{}
	}
	r.Bauspar = append(r.Bauspar, BausparSummary{
		Name:                         name,
		Phase:                        string(b.Phase),
		PhaseDescription:             b.PhaseDescription(),
		Bausparsumme:                 cur.Round(b.Bausparsumme),
		Balance:                      cur.Round(b.Balance),
		SavingsTarget:                cur.Round(b.SavingsTargetAmount()),
		SavingsProgressPercent:       b.SavingsProgressPercent(),
		AvailableLoanAmount:          cur.Round(b.AvailableLoanAmount()),
		SuggestedMonthlyContribution: cur.Round(b.SuggestedMonthlyContribution()),
		AllocationReady:              b.AllocationReady(today),
		MonthsUntilMinimumPeriod:     b.MonthsUntilMinimumPeriod(today),
		YearsUntilAllocation:         b.YearsUntilAllocation(today),
		ContractDurationYears:        b.ContractDurationYears(today),
		Subsidies:                    subsidies,
	})
}

// FormatterFor looks up the named formatter and applies the locale to the
// console formatter.
func FormatterFor(format, locale string) (Formatter, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	if c, ok := f.(ConsoleFormatter); ok {
		c.Locale = locale
		f = c
	}
	return f, nil
}

// GenerateReport renders the report with the named formatter to w.
func GenerateReport(w io.Writer, r *Report, format, locale string) error {
	f, err := FormatterFor(format, locale)
	if err != nil {
		return err
	}
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("failed to format report as %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}
