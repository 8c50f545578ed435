package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// RepaymentType is how a private loan is paid back
type RepaymentType string

const (
	RepaymentAnnuity      RepaymentType = "annuity"
	RepaymentBullet       RepaymentType = "bullet"
	RepaymentInterestOnly RepaymentType = "interest_only"
	RepaymentCustom       RepaymentType = "custom"
)

// RateType is whether the loan's rate is fixed or floating
type RateType string

const (
	RateFixed    RateType = "fixed"
	RateVariable RateType = "variable"
)

// averageDaysPerMonth converts day counts to fractional months
var averageDaysPerMonth = decimal.NewFromFloat(30.44)

// PrivateLoan is money lent to someone else. Outstanding is the amount
// still owed, i.e. the account balance.
type PrivateLoan struct {
	Principal     decimal.Decimal  `json:"principal"`
	InterestRate  *decimal.Decimal `json:"interest_rate,omitempty"` // annual percent
	TermMonths    int              `json:"term_months,omitempty"`
	RepaymentType RepaymentType    `json:"repayment_type,omitempty"`
	RateType      RateType         `json:"rate_type,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	MaturityDate  *time.Time       `json:"maturity_date,omitempty"`
	Outstanding   decimal.Decimal  `json:"outstanding"`
}

// Validate checks the loan terms
func (l PrivateLoan) Validate() error {
	var errs []error
	if !l.Principal.IsPositive() {
		errs = append(errs, errors.New("principal must be greater than 0"))
	}
	if l.InterestRate != nil && l.InterestRate.IsNegative() {
		errs = append(errs, errors.New("interest rate must be >= 0"))
	}
	if l.TermMonths < 0 {
		errs = append(errs, errors.New("term months must be greater than 0"))
	}
	switch l.RepaymentType {
	case "", RepaymentAnnuity, RepaymentBullet, RepaymentInterestOnly, RepaymentCustom:
	default:
		errs = append(errs, fmt.Errorf("invalid repayment type: %s", l.RepaymentType))
	}
	switch l.RateType {
	case "", RateFixed, RateVariable:
	default:
		errs = append(errs, fmt.Errorf("invalid rate type: %s", l.RateType))
	}
	return errors.Join(errs...)
}

// MonthlyInterestPayment is principal * rate/12, zero for a non-positive rate
func (l PrivateLoan) MonthlyInterestPayment() *decimal.Decimal {
	if l.InterestRate == nil {
		return nil
	}
	if !l.InterestRate.IsPositive() {
		return domain.DecimalPtr(decimal.Zero)
	}
	v := l.Principal.Mul(MonthlyRate(*l.InterestRate))
	return &v
}

// MonthlyPayment returns the periodic payment for the repayment type. Bullet
// and interest-only loans pay interest only. Annuity loans pay the PMT
// amount, or principal/term at a zero rate. Custom schedules have none.
func (l PrivateLoan) MonthlyPayment() *decimal.Decimal {
	if l.InterestRate == nil || l.TermMonths <= 0 {
		return nil
	}
	switch l.RepaymentType {
	case RepaymentBullet, RepaymentInterestOnly:
		return l.MonthlyInterestPayment()
	case RepaymentAnnuity:
		v := AnnuityPayment(l.Principal, *l.InterestRate, l.TermMonths)
		return &v
	default:
		return nil
	}
}

// AnnuityPayment is P * r(1+r)^n / ((1+r)^n - 1) for monthly rate r
func AnnuityPayment(principal, annualRatePct decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return principal
	}
	rate := MonthlyRate(annualRatePct)
	if !rate.IsPositive() {
		return principal.Div(decimal.NewFromInt(int64(months)))
	}
	growth := growthFactor(rate, months)
	return principal.Mul(rate.Mul(growth)).Div(growth.Sub(decimal.NewFromInt(1))).Round(internalScale)
}

// TotalInterest over the full term
func (l PrivateLoan) TotalInterest() *decimal.Decimal {
	if l.InterestRate == nil || l.TermMonths <= 0 {
		return nil
	}
	n := decimal.NewFromInt(int64(l.TermMonths))
	switch l.RepaymentType {
	case RepaymentBullet, RepaymentInterestOnly:
		v := l.MonthlyInterestPayment().Mul(n)
		return &v
	case RepaymentAnnuity:
		v := l.MonthlyPayment().Mul(n).Sub(l.Principal)
		return &v
	default:
		return nil
	}
}

// TotalRepayment is principal plus total interest
func (l PrivateLoan) TotalRepayment() *decimal.Decimal {
	interest := l.TotalInterest()
	if interest == nil {
		return nil
	}
	v := l.Principal.Add(*interest)
	return &v
}

// RepaymentProgressPercent is the repaid share of principal, capped at 100
func (l PrivateLoan) RepaymentProgressPercent() decimal.Decimal {
	if !l.Principal.IsPositive() {
		return decimal.Zero
	}
	repaid := l.Principal.Sub(l.Outstanding)
	return decimal.Min(repaid.Div(l.Principal).Mul(hundred).Round(1), hundred)
}

// PastDue reports whether the maturity date has passed with money still owed
func (l PrivateLoan) PastDue(today time.Time) bool {
	if l.MaturityDate == nil {
		return false
	}
	return l.MaturityDate.Before(today) && l.Outstanding.IsPositive()
}

// DaysUntilMaturity is nil without a maturity date and zero once it has passed
func (l PrivateLoan) DaysUntilMaturity(today time.Time) *int {
	if l.MaturityDate == nil {
		return nil
	}
	days := 0
	if l.MaturityDate.After(today) {
		days = dateutil.DaysBetween(today, *l.MaturityDate)
	}
	return &days
}

// MonthsUntilMaturity is days/30.44 rounded to one place
func (l PrivateLoan) MonthsUntilMaturity(today time.Time) *decimal.Decimal {
	days := l.DaysUntilMaturity(today)
	if days == nil {
		return nil
	}
	v := decimal.NewFromInt(int64(*days)).Div(averageDaysPerMonth).Round(1)
	return &v
}

// ElapsedMonths runs from the start date to maturity or today, whichever is earlier
func (l PrivateLoan) ElapsedMonths(today time.Time) *decimal.Decimal {
	if l.StartDate == nil {
		return nil
	}
	end := today
	if l.MaturityDate != nil && l.MaturityDate.Before(end) {
		end = *l.MaturityDate
	}
	v := decimal.NewFromInt(int64(dateutil.DaysBetween(*l.StartDate, end))).Div(averageDaysPerMonth).Round(1)
	return &v
}

// Description returns the display label of the repayment type
func (t RepaymentType) Description() string {
	switch t {
	case RepaymentAnnuity:
		return "Annuity (Equal Payments)"
	case RepaymentBullet:
		return "Bullet (Interest Only, Principal at End)"
	case RepaymentInterestOnly:
		return "Interest Only"
	case RepaymentCustom:
		return "Custom Schedule"
	default:
		return "Not Specified"
	}
}

// Description returns the display label of the rate type
func (t RateType) Description() string {
	switch t {
	case RateFixed:
		return "Fixed Rate"
	case RateVariable:
		return "Variable Rate"
	default:
		return "Not Specified"
	}
}
