package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// BausparPhase is the lifecycle phase of a building savings contract
type BausparPhase string

const (
	BausparSaving    BausparPhase = "saving"
	BausparAllocated BausparPhase = "allocated"
	BausparLoan      BausparPhase = "loan"
	BausparClosed    BausparPhase = "closed"
)

var (
	defaultMinimumSavingsPercent = decimal.NewFromInt(40)
	// Regelsparbeitrag: 4 per mille of the contract sum per month
	regularContributionRate = decimal.NewFromFloat(0.004)
	daysPerYear             = decimal.NewFromFloat(365.25)
)

// BausparContract is a German building savings contract (Bausparvertrag).
// Balance is the amount saved so far.
type BausparContract struct {
	Bausparsumme                   decimal.Decimal  `json:"bausparsumme"`
	Phase                          BausparPhase     `json:"phase"`
	Balance                        decimal.Decimal  `json:"balance"`
	MinimumSavingsPercent          *decimal.Decimal `json:"minimum_savings_percent,omitempty"`
	ContractStartDate              *time.Time       `json:"contract_start_date,omitempty"`
	ExpectedAllocationDate         *time.Time       `json:"expected_allocation_date,omitempty"`
	MinimumSavingsPeriodMonths     *int             `json:"minimum_savings_period_months,omitempty"`
	CurrentBewertungszahl          *decimal.Decimal `json:"current_bewertungszahl,omitempty"`
	MinimumBewertungszahl          *decimal.Decimal `json:"minimum_bewertungszahl,omitempty"`
	WohnungsbauPraemieEligible     bool             `json:"wohnungsbaupraemie_eligible"`
	ArbeitnehmerSparzulageEligible bool             `json:"arbeitnehmersparzulage_eligible"`
	WohnRiesterEligible            bool             `json:"wohn_riester_eligible"`
	VermoegenswirksameLeistungen   bool             `json:"vermoegenswirksame_leistungen"`
	TariffName                     string           `json:"tariff_name,omitempty"`
}

// Validate checks the contract terms
func (b BausparContract) Validate() error {
	var errs []error
	if !b.Bausparsumme.IsPositive() {
		errs = append(errs, errors.New("bausparsumme must be greater than 0"))
	}
	switch b.Phase {
	case BausparSaving, BausparAllocated, BausparLoan, BausparClosed:
	default:
		errs = append(errs, fmt.Errorf("invalid phase: %q", b.Phase))
	}
	if p := b.MinimumSavingsPercent; p != nil && (p.IsNegative() || p.GreaterThan(hundred)) {
		errs = append(errs, errors.New("minimum savings percent must be between 0 and 100"))
	}
	return errors.Join(errs...)
}

// PhaseDescription returns the display label of the phase
func (b BausparContract) PhaseDescription() string {
	switch b.Phase {
	case BausparSaving:
		return "Savings Phase (Ansparphase)"
	case BausparAllocated:
		return "Allocated - Ready for Loan (Zuteilung)"
	case BausparLoan:
		return "Loan Phase (Darlehensphase)"
	case BausparClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// SavingsTargetPercent is the share of the contract sum to save before allocation
func (b BausparContract) SavingsTargetPercent() decimal.Decimal {
	if b.MinimumSavingsPercent == nil {
		return defaultMinimumSavingsPercent
	}
	return *b.MinimumSavingsPercent
}

// SavingsTargetAmount is the amount to save before allocation
func (b BausparContract) SavingsTargetAmount() decimal.Decimal {
	return b.Bausparsumme.Mul(b.SavingsTargetPercent()).Div(hundred)
}

// SavingsProgressPercent is balance/target*100 rounded to one place, capped at 100
func (b BausparContract) SavingsProgressPercent() decimal.Decimal {
	target := b.SavingsTargetAmount()
	if !target.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(b.Balance.Div(target).Mul(hundred).Round(1), hundred)
}

// AvailableLoanAmount is the contract sum not yet covered by savings
func (b BausparContract) AvailableLoanAmount() decimal.Decimal {
	return decimal.Max(b.Bausparsumme.Sub(b.Balance), decimal.Zero)
}

// SuggestedMonthlyContribution is the usual regular contribution of 4 per mille
func (b BausparContract) SuggestedMonthlyContribution() decimal.Decimal {
	return b.Bausparsumme.Mul(regularContributionRate)
}

// MinimumSavingsPeriodMet is true when no period is set or it has elapsed by today
func (b BausparContract) MinimumSavingsPeriodMet(today time.Time) bool {
	if b.MinimumSavingsPeriodMonths == nil || b.ContractStartDate == nil {
		return true
	}
	return !today.Before(dateutil.AddMonths(*b.ContractStartDate, *b.MinimumSavingsPeriodMonths))
}

// MonthsUntilMinimumPeriod is the number of calendar months left, zero once met
func (b BausparContract) MonthsUntilMinimumPeriod(today time.Time) int {
	if b.MinimumSavingsPeriodMet(today) {
		return 0
	}
	end := dateutil.AddMonths(*b.ContractStartDate, *b.MinimumSavingsPeriodMonths)
	return dateutil.MonthsBetween(today, end)
}

// BewertungszahlMet is true when either score is unknown or current reaches minimum
func (b BausparContract) BewertungszahlMet() bool {
	if b.MinimumBewertungszahl == nil || b.CurrentBewertungszahl == nil {
		return true
	}
	return b.CurrentBewertungszahl.GreaterThanOrEqual(*b.MinimumBewertungszahl)
}

// AllocationReady reports whether a saving-phase contract meets every
// allocation condition: savings target, minimum period and Bewertungszahl.
func (b BausparContract) AllocationReady(today time.Time) bool {
	return b.Phase == BausparSaving &&
		b.Balance.GreaterThanOrEqual(b.SavingsTargetAmount()) &&
		b.MinimumSavingsPeriodMet(today) &&
		b.BewertungszahlMet()
}

// ActiveSubsidies lists the state subsidies the contract is eligible for
func (b BausparContract) ActiveSubsidies() []string {
	var out []string
	if b.WohnungsbauPraemieEligible {
		out = append(out, "Wohnungsbauprämie")
	}
	if b.ArbeitnehmerSparzulageEligible {
		out = append(out, "Arbeitnehmersparzulage")
	}
	if b.WohnRiesterEligible {
		out = append(out, "Wohn-Riester")
	}
	if b.VermoegenswirksameLeistungen {
		out = append(out, "Vermögenswirksame Leistungen")
	}
	return out
}

// HasSubsidies reports whether any subsidy applies
func (b BausparContract) HasSubsidies() bool { return len(b.ActiveSubsidies()) > 0 }

// YearsUntilAllocation is nil without an expected date and zero once it has passed
func (b BausparContract) YearsUntilAllocation(today time.Time) *decimal.Decimal {
	if b.ExpectedAllocationDate == nil {
		return nil
	}
	if !b.ExpectedAllocationDate.After(today) {
		return domain.DecimalPtr(decimal.Zero)
	}
	v := yearsBetween(today, *b.ExpectedAllocationDate)
	return &v
}

// ContractDurationYears is the time since the contract started
func (b BausparContract) ContractDurationYears(today time.Time) *decimal.Decimal {
	if b.ContractStartDate == nil {
		return nil
	}
	v := yearsBetween(*b.ContractStartDate, today)
	return &v
}

func yearsBetween(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(dateutil.DaysBetween(from, to))).Div(daysPerYear).Round(1)
}
