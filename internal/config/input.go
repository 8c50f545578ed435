package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	rpdecimal "github.com/rpgo/retirement-planner/pkg/decimal"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported input file formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Plan is a parsed planning input: one scenario, the pension accounts it
// links, the values injected into recalculation, and optional side assets.
type Plan struct {
	Scenario *domain.Scenario
	Accounts []domain.PensionAccount
	Inputs   calculation.Inputs
	Loans    []Loan
	Bauspar  []Bauspar
}

// Loan is a named private loan from the input file
type Loan struct {
	Name string
	calculation.PrivateLoan
}

// Bauspar is a named building savings contract from the input file
type Bauspar struct {
	Name string
	calculation.BausparContract
}

type planFile struct {
	Scenario        scenarioFile  `yaml:"scenario" toml:"scenario"`
	Inputs          inputsFile    `yaml:"inputs" toml:"inputs"`
	PensionAccounts []accountFile `yaml:"pension_accounts" toml:"pension_accounts"`
	Loans           []loanFile    `yaml:"loans" toml:"loans"`
	Bauspar         []bausparFile `yaml:"bauspar_contracts" toml:"bauspar_contracts"`
}

type scenarioFile struct {
	ID                        string        `yaml:"id" toml:"id"`
	Name                      string        `yaml:"name" toml:"name"`
	Description               string        `yaml:"description" toml:"description"`
	Currency                  string        `yaml:"currency" toml:"currency"`
	IsPrimary                 bool          `yaml:"is_primary" toml:"is_primary"`
	MonthlyRetirementExpenses *decimalValue `yaml:"monthly_retirement_expenses" toml:"monthly_retirement_expenses"`
	WithdrawalRate            *decimalValue `yaml:"withdrawal_rate" toml:"withdrawal_rate"`
	PortfolioGrowthRate       *decimalValue `yaml:"portfolio_growth_rate" toml:"portfolio_growth_rate"`
	InflationRate             *decimalValue `yaml:"inflation_rate" toml:"inflation_rate"`
	MonthlyContribution       *decimalValue `yaml:"monthly_contribution" toml:"monthly_contribution"`
	CurrentAnnualSalary       *decimalValue `yaml:"current_annual_salary" toml:"current_annual_salary"`
	SalaryEndDate             *dateValue    `yaml:"salary_end_date" toml:"salary_end_date"`
	StatePensionMonthly       *decimalValue `yaml:"state_pension_monthly" toml:"state_pension_monthly"`
	StatePensionStartDate     *dateValue    `yaml:"state_pension_start_date" toml:"state_pension_start_date"`
	RiesterMonthly            *decimalValue `yaml:"riester_monthly" toml:"riester_monthly"`
	RuerupMonthly             *decimalValue `yaml:"ruerup_monthly" toml:"ruerup_monthly"`
	BetriebsrenteMonthly      *decimalValue `yaml:"betriebsrente_monthly" toml:"betriebsrente_monthly"`
	OtherPensionMonthly       *decimalValue `yaml:"other_pension_monthly" toml:"other_pension_monthly"`
	OtherPensionStartDate     *dateValue    `yaml:"other_pension_start_date" toml:"other_pension_start_date"`
}

type inputsFile struct {
	CurrentNetWorth      *decimalValue `yaml:"current_net_worth" toml:"current_net_worth"`
	AsOf                 *dateValue    `yaml:"as_of" toml:"as_of"`
	MedianMonthlySurplus *decimalValue `yaml:"median_monthly_surplus" toml:"median_monthly_surplus"`
}

type accountFile struct {
	ID                    string        `yaml:"id" toml:"id"`
	Name                  string        `yaml:"name" toml:"name"`
	Type                  string        `yaml:"type" toml:"type"`
	ExpectedMonthlyPayout *decimalValue `yaml:"expected_monthly_payout" toml:"expected_monthly_payout"`
	RetirementDate        *dateValue    `yaml:"retirement_date" toml:"retirement_date"`
	// Per-scenario overrides of the account's stored pension data
	Payout          *decimalValue `yaml:"payout" toml:"payout"`
	PayoutStartDate *dateValue    `yaml:"payout_start_date" toml:"payout_start_date"`
}

type loanFile struct {
	Name          string        `yaml:"name" toml:"name"`
	Principal     *decimalValue `yaml:"principal" toml:"principal"`
	InterestRate  *decimalValue `yaml:"interest_rate" toml:"interest_rate"`
	TermMonths    int           `yaml:"term_months" toml:"term_months"`
	RepaymentType string        `yaml:"repayment_type" toml:"repayment_type"`
	RateType      string        `yaml:"rate_type" toml:"rate_type"`
	StartDate     *dateValue    `yaml:"start_date" toml:"start_date"`
	MaturityDate  *dateValue    `yaml:"maturity_date" toml:"maturity_date"`
	Outstanding   *decimalValue `yaml:"outstanding" toml:"outstanding"`
}

type bausparFile struct {
	Name                           string        `yaml:"name" toml:"name"`
	TariffName                     string        `yaml:"tariff_name" toml:"tariff_name"`
	Bausparsumme                   *decimalValue `yaml:"bausparsumme" toml:"bausparsumme"`
	Phase                          string        `yaml:"phase" toml:"phase"`
	Balance                        *decimalValue `yaml:"balance" toml:"balance"`
	MinimumSavingsPercent          *decimalValue `yaml:"minimum_savings_percent" toml:"minimum_savings_percent"`
	ContractStartDate              *dateValue    `yaml:"contract_start_date" toml:"contract_start_date"`
	ExpectedAllocationDate         *dateValue    `yaml:"expected_allocation_date" toml:"expected_allocation_date"`
	MinimumSavingsPeriodMonths     *int          `yaml:"minimum_savings_period_months" toml:"minimum_savings_period_months"`
	CurrentBewertungszahl          *decimalValue `yaml:"current_bewertungszahl" toml:"current_bewertungszahl"`
	MinimumBewertungszahl          *decimalValue `yaml:"minimum_bewertungszahl" toml:"minimum_bewertungszahl"`
	WohnungsbauPraemieEligible     bool          `yaml:"wohnungsbaupraemie_eligible" toml:"wohnungsbaupraemie_eligible"`
	ArbeitnehmerSparzulageEligible bool          `yaml:"arbeitnehmersparzulage_eligible" toml:"arbeitnehmersparzulage_eligible"`
	WohnRiesterEligible            bool          `yaml:"wohn_riester_eligible" toml:"wohn_riester_eligible"`
	VermoegenswirksameLeistungen   bool          `yaml:"vermoegenswirksame_leistungen" toml:"vermoegenswirksame_leistungen"`
}

// InputParser handles parsing of planning input files
type InputParser struct {
	// DefaultCurrency applies to scenarios that do not name one
	DefaultCurrency string
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{DefaultCurrency: rpdecimal.DefaultCurrency}
}

// FormatFromPath picks the input format from the file extension. Anything
// that is not .toml or .json is read as YAML.
func FormatFromPath(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// LoadFromFile loads a plan from a YAML, JSON or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, FormatFromPath(filename))
}

// Parse decodes and validates a plan. JSON is decoded by the YAML parser,
// which accepts it as a subset.
func (ip *InputParser) Parse(data []byte, format string) (*Plan, error) {
	var pf planFile
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &pf); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML, FormatJSON:
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", strings.ToUpper(format), err)
		}
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}

	plan, err := ip.buildPlan(&pf)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := ip.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return plan, nil
}

func (ip *InputParser) buildPlan(pf *planFile) (*Plan, error) {
	sf := pf.Scenario
	name := strings.TrimSpace(sf.Name)
	if name == "" {
		name = domain.DefaultScenarioName
	}

	asOf := pf.Inputs.AsOf.ptr()
	s := domain.NewScenario(name, dateOrZero(asOf))
	id, err := resolveID(sf.ID, "scenario:"+name)
	if err != nil {
		return nil, fmt.Errorf("scenario id: %w", err)
	}
	s.ID = id
	s.Description = sf.Description
	s.IsPrimary = sf.IsPrimary
	s.Currency = strings.ToUpper(strings.TrimSpace(sf.Currency))
	if s.Currency == "" {
		s.Currency = ip.DefaultCurrency
	}

	s.MonthlyRetirementExpenses = sf.MonthlyRetirementExpenses.ptr()
	if sf.WithdrawalRate != nil {
		s.WithdrawalRate = sf.WithdrawalRate.ptr()
	}
	if sf.PortfolioGrowthRate != nil {
		s.PortfolioGrowthRate = sf.PortfolioGrowthRate.ptr()
	}
	if sf.InflationRate != nil {
		s.InflationRate = sf.InflationRate.ptr()
	}
	s.MonthlyContribution = sf.MonthlyContribution.ptr()
	s.CurrentAnnualSalary = sf.CurrentAnnualSalary.ptr()
	s.SalaryEndDate = sf.SalaryEndDate.ptr()
	s.StatePensionMonthly = sf.StatePensionMonthly.ptr()
	s.StatePensionStartDate = sf.StatePensionStartDate.ptr()
	s.RiesterMonthly = sf.RiesterMonthly.ptr()
	s.RuerupMonthly = sf.RuerupMonthly.ptr()
	s.BetriebsrenteMonthly = sf.BetriebsrenteMonthly.ptr()
	s.OtherPensionMonthly = sf.OtherPensionMonthly.ptr()
	s.OtherPensionStartDate = sf.OtherPensionStartDate.ptr()

	plan := &Plan{
		Scenario: s,
		Inputs: calculation.Inputs{
			CurrentNetWorth:      pf.Inputs.CurrentNetWorth.or(decimal.Zero),
			AsOf:                 dateOrZero(asOf),
			MedianMonthlySurplus: pf.Inputs.MedianMonthlySurplus.ptr(),
		},
	}

	for i, af := range pf.PensionAccounts {
		acc, err := buildAccount(af)
		if err != nil {
			return nil, fmt.Errorf("pension account %d: %w", i, err)
		}
		plan.Accounts = append(plan.Accounts, acc)
		src := domain.NewPensionSource(acc, af.Payout.ptr(), af.PayoutStartDate.ptr())
		if err := s.AddPensionSource(src); err != nil {
			return nil, fmt.Errorf("pension account %q: %w", acc.Name, err)
		}
	}

	for _, lf := range pf.Loans {
		plan.Loans = append(plan.Loans, Loan{
			Name: lf.Name,
			PrivateLoan: calculation.PrivateLoan{
				Principal:     lf.Principal.or(decimal.Zero),
				InterestRate:  lf.InterestRate.ptr(),
				TermMonths:    lf.TermMonths,
				RepaymentType: calculation.RepaymentType(strings.ToLower(lf.RepaymentType)),
				RateType:      calculation.RateType(strings.ToLower(lf.RateType)),
				StartDate:     lf.StartDate.ptr(),
				MaturityDate:  lf.MaturityDate.ptr(),
				Outstanding:   lf.Outstanding.or(lf.Principal.or(decimal.Zero)),
			},
		})
	}

	for _, bf := range pf.Bauspar {
		phase := calculation.BausparPhase(strings.ToLower(bf.Phase))
		if phase == "" {
			phase = calculation.BausparSaving
		}
		plan.Bauspar = append(plan.Bauspar, Bauspar{
			Name: bf.Name,
			BausparContract: calculation.BausparContract{
				Bausparsumme:                   bf.Bausparsumme.or(decimal.Zero),
				Phase:                          phase,
				Balance:                        bf.Balance.or(decimal.Zero),
				MinimumSavingsPercent:          bf.MinimumSavingsPercent.ptr(),
				ContractStartDate:              bf.ContractStartDate.ptr(),
				ExpectedAllocationDate:         bf.ExpectedAllocationDate.ptr(),
				MinimumSavingsPeriodMonths:     bf.MinimumSavingsPeriodMonths,
				CurrentBewertungszahl:          bf.CurrentBewertungszahl.ptr(),
				MinimumBewertungszahl:          bf.MinimumBewertungszahl.ptr(),
				WohnungsbauPraemieEligible:     bf.WohnungsbauPraemieEligible,
				ArbeitnehmerSparzulageEligible: bf.ArbeitnehmerSparzulageEligible,
				WohnRiesterEligible:            bf.WohnRiesterEligible,
				VermoegenswirksameLeistungen:   bf.VermoegenswirksameLeistungen,
				TariffName:                     bf.TariffName,
			},
		})
	}
	return plan, nil
}

func buildAccount(af accountFile) (domain.PensionAccount, error) {
	if strings.TrimSpace(af.Name) == "" {
		return domain.PensionAccount{}, fmt.Errorf("name is required")
	}
	t, err := domain.ParsePensionType(af.Type)
	if err != nil {
		return domain.PensionAccount{}, err
	}
	id, err := resolveID(af.ID, "account:"+af.Name)
	if err != nil {
		return domain.PensionAccount{}, fmt.Errorf("id: %w", err)
	}
	return domain.PensionAccount{
		ID:                    id,
		Name:                  af.Name,
		Type:                  t,
		ExpectedMonthlyPayout: af.ExpectedMonthlyPayout.ptr(),
		RetirementDate:        af.RetirementDate.ptr(),
	}, nil
}

// resolveID parses an explicit id or derives a stable one from the seed, so
// the same file always yields the same ids across runs.
func resolveID(raw, seed string) (uuid.UUID, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		return uuid.Parse(raw)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)), nil
}

// ValidatePlan validates the scenario and every side asset of the plan
func (ip *InputParser) ValidatePlan(plan *Plan) error {
	if err := ip.ValidateScenario(plan.Scenario); err != nil {
		return err
	}
	for _, l := range plan.Loans {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("loan %q: %w", l.Name, err)
		}
	}
	for _, b := range plan.Bauspar {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bauspar contract %q: %w", b.Name, err)
		}
	}
	return nil
}

// ValidateScenario checks the scenario inputs against their allowed ranges
func (ip *InputParser) ValidateScenario(s *domain.Scenario) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("scenario name is required")
	}
	if !rpdecimal.IsKnownCurrency(s.CurrencyCode()) {
		return fmt.Errorf("unknown currency %q", s.Currency)
	}
	if s.MonthlyRetirementExpenses != nil && !s.MonthlyRetirementExpenses.IsPositive() {
		return fmt.Errorf("monthly retirement expenses must be positive")
	}
	if r := s.WithdrawalRate; r != nil && (!r.IsPositive() || r.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("withdrawal rate must be greater than 0 and at most 100")
	}
	if r := s.PortfolioGrowthRate; r != nil && outside(*r, -20, 50) {
		return fmt.Errorf("portfolio growth rate must be between -20 and 50")
	}
	if r := s.InflationRate; r != nil && outside(*r, 0, 20) {
		return fmt.Errorf("inflation rate must be between 0 and 20")
	}

	nonNegative := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"monthly contribution", s.MonthlyContribution},
		{"current annual salary", s.CurrentAnnualSalary},
		{"state pension monthly", s.StatePensionMonthly},
		{"riester monthly", s.RiesterMonthly},
		{"ruerup monthly", s.RuerupMonthly},
		{"betriebsrente monthly", s.BetriebsrenteMonthly},
		{"other pension monthly", s.OtherPensionMonthly},
	}
	for _, f := range nonNegative {
		if f.value != nil && f.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", f.name)
		}
	}

	for _, src := range s.PensionSources {
		if err := src.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func outside(v decimal.Decimal, lo, hi int64) bool {
	return v.LessThan(decimal.NewFromInt(lo)) || v.GreaterThan(decimal.NewFromInt(hi))
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
