package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
	assert.Equal(t, "EUR", parser.DefaultCurrency)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"plan.yaml", FormatYAML},
		{"plan.yml", FormatYAML},
		{"PLAN.TOML", FormatTOML},
		{"plan.json", FormatJSON},
		{"plan", FormatYAML},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromPath(tt.path), tt.path)
	}
}

// Every format decodes to the same plan
func TestLoadFromFile_AllFormats(t *testing.T) {
	for _, name := range []string{"gap_plan.yaml", "gap_plan.json", "gap_plan.toml"} {
		t.Run(name, func(t *testing.T) {
			plan, err := NewInputParser().LoadFromFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			s := plan.Scenario
			assert.Equal(t, "With gap", s.Name)
			assert.Equal(t, "EUR", s.Currency)
			assert.True(t, s.MonthlyRetirementExpenses.Equal(decimal.NewFromInt(4000)))
			assert.True(t, s.WithdrawalRate.Equal(decimal.NewFromInt(4)))
			assert.True(t, s.RiesterMonthly.Equal(decimal.RequireFromString("200.5")))
			require.NotNil(t, s.SalaryEndDate)
			assert.Equal(t, dateutil.Date(2040, time.December, 31), *s.SalaryEndDate)
			require.NotNil(t, s.StatePensionStartDate)
			assert.Equal(t, dateutil.Date(2042, time.January, 1), *s.StatePensionStartDate)

			// Defaults apply only to keys the file leaves out
			assert.True(t, s.PortfolioGrowthRate.Equal(domain.DefaultGrowthRate))
			assert.True(t, s.InflationRate.Equal(domain.DefaultInflationRate))
			assert.Nil(t, s.MonthlyContribution)

			assert.True(t, plan.Inputs.CurrentNetWorth.Equal(decimal.NewFromInt(50000)))
			assert.Equal(t, dateutil.Date(2040, time.November, 1), plan.Inputs.AsOf)
			assert.Equal(t, plan.Inputs.AsOf, s.CalculationDate)
			assert.Nil(t, plan.Inputs.MedianMonthlySurplus)

			require.Len(t, plan.Accounts, 1)
			require.Len(t, s.PensionSources, 1)
			src := s.PensionSources[0]
			assert.Equal(t, domain.PensionTypeRiester, src.Type())
			assert.True(t, src.Payout().Equal(decimal.NewFromInt(300)))
			assert.Equal(t, dateutil.Date(2043, time.January, 1), *src.PayoutStartDate)
			assert.False(t, src.HasCustomValues(plan.Accounts[0]))

			require.Len(t, plan.Loans, 1)
			assert.Equal(t, "Bullet loan", plan.Loans[0].Name)
			assert.Equal(t, calculation.RepaymentBullet, plan.Loans[0].RepaymentType)
			assert.True(t, plan.Loans[0].Outstanding.Equal(decimal.NewFromInt(10000)))
		})
	}
}

func TestLoadFromFile_StableIDs(t *testing.T) {
	parser := NewInputParser()
	a, err := parser.LoadFromFile(filepath.Join("testdata", "gap_plan.yaml"))
	require.NoError(t, err)
	b, err := parser.LoadFromFile(filepath.Join("testdata", "gap_plan.toml"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.Scenario.ID)
	assert.Equal(t, a.Scenario.ID, b.Scenario.ID)
	assert.Equal(t, a.Accounts[0].ID, b.Accounts[0].ID)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	plan, err := NewInputParser().LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, plan)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParse_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		data    string
		wantErr string
	}{
		{"tab indented yaml", FormatYAML, "scenario:\n\tname: x\n", "failed to parse YAML"},
		{"bad date", FormatYAML, "scenario:\n  salary_end_date: 31.12.2040\n", "expected YYYY-MM-DD"},
		{"bad number", FormatYAML, "scenario:\n  monthly_retirement_expenses: lots\n", "invalid number"},
		{"bad toml", FormatTOML, "[scenario\nname = 1", "failed to parse TOML"},
		{"unknown format", "xml", "<plan/>", "unsupported input format"},
		{"unknown pension type", FormatYAML, "pension_accounts:\n  - name: A\n    type: pillar3a\n", "unknown pension type"},
		{"account without name", FormatYAML, "pension_accounts:\n  - type: riester\n", "name is required"},
		{"malformed id", FormatYAML, "scenario:\n  id: not-a-uuid\n", "scenario id"},
		{"duplicate account", FormatYAML, "pension_accounts:\n  - name: A\n    type: riester\n  - name: A\n    type: riester\n", "already linked"},
		{"invalid loan", FormatYAML, "loans:\n  - name: L\n    principal: 0\n", "loan \"L\""},
		{"invalid bauspar phase", FormatYAML, "bauspar_contracts:\n  - name: B\n    bausparsumme: 1000\n    phase: dormant\n", "invalid phase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewInputParser().Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_MinimalPlan(t *testing.T) {
	parser := NewInputParser()
	parser.DefaultCurrency = "USD"

	plan, err := parser.Parse([]byte("scenario:\n  monthly_retirement_expenses: 2500\n"), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultScenarioName, plan.Scenario.Name)
	assert.Equal(t, "USD", plan.Scenario.Currency)
	assert.True(t, plan.Scenario.WithdrawalRate.Equal(domain.DefaultWithdrawalRate))
	assert.True(t, plan.Inputs.CurrentNetWorth.IsZero())
	assert.True(t, plan.Inputs.AsOf.IsZero())
	assert.Empty(t, plan.Loans)
}

// An indebted household whose pensions cover expenses needs no portfolio
// but cannot retire until the debt is gone.
func TestParse_NegativeNetWorth(t *testing.T) {
	data := `
scenario:
  monthly_retirement_expenses: 2000
  state_pension_monthly: 2500
inputs:
  current_net_worth: -5000
  as_of: 2025-01-01
`
	plan, err := NewInputParser().Parse([]byte(data), FormatYAML)
	require.NoError(t, err)
	assert.True(t, plan.Inputs.CurrentNetWorth.Equal(decimal.NewFromInt(-5000)))

	s := plan.Scenario
	require.NoError(t, calculation.NewScenarioCalculator().Recalculate(s, plan.Inputs))
	require.NotNil(t, s.Metrics.RequiredPortfolioValue)
	assert.True(t, s.Metrics.RequiredPortfolioValue.IsZero())
	assert.True(t, s.Metrics.PortfolioGap.Equal(decimal.NewFromInt(5000)))
	assert.True(t, calculation.PensionSelfSufficient(s))
	assert.False(t, calculation.CanRetireNow(s))
	assert.Nil(t, s.Metrics.ProjectedRetirementDate)
}

func TestParse_AccountOverrides(t *testing.T) {
	data := `
pension_accounts:
  - name: Siemens bAV
    type: Betriebsrente
    expected_monthly_payout: 420
    retirement_date: 2041-07-01
    payout: 450
`
	plan, err := NewInputParser().Parse([]byte(data), FormatYAML)
	require.NoError(t, err)

	src := plan.Scenario.PensionSources[0]
	assert.True(t, src.Payout().Equal(decimal.NewFromInt(450)))
	assert.Equal(t, dateutil.Date(2041, time.July, 1), *src.PayoutStartDate)
	assert.True(t, src.HasCustomValues(plan.Accounts[0]))
}

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *domain.Scenario)
		wantErr string
	}{
		{"valid", func(s *domain.Scenario) {}, ""},
		{"missing expenses is allowed", func(s *domain.Scenario) { s.MonthlyRetirementExpenses = nil }, ""},
		{"zero expenses", func(s *domain.Scenario) { s.MonthlyRetirementExpenses = dp("0") }, "monthly retirement expenses"},
		{"zero withdrawal rate", func(s *domain.Scenario) { s.WithdrawalRate = dp("0") }, "withdrawal rate"},
		{"withdrawal rate of 100", func(s *domain.Scenario) { s.WithdrawalRate = dp("100") }, ""},
		{"withdrawal rate above 100", func(s *domain.Scenario) { s.WithdrawalRate = dp("100.5") }, "withdrawal rate"},
		{"growth rate lower bound", func(s *domain.Scenario) { s.PortfolioGrowthRate = dp("-20") }, ""},
		{"growth rate too low", func(s *domain.Scenario) { s.PortfolioGrowthRate = dp("-20.1") }, "portfolio growth rate"},
		{"growth rate too high", func(s *domain.Scenario) { s.PortfolioGrowthRate = dp("51") }, "portfolio growth rate"},
		{"negative inflation", func(s *domain.Scenario) { s.InflationRate = dp("-1") }, "inflation rate"},
		{"inflation too high", func(s *domain.Scenario) { s.InflationRate = dp("21") }, "inflation rate"},
		{"negative salary", func(s *domain.Scenario) { s.CurrentAnnualSalary = dp("-1") }, "current annual salary"},
		{"negative legacy pension", func(s *domain.Scenario) { s.RuerupMonthly = dp("-5") }, "ruerup monthly"},
		{"unknown currency", func(s *domain.Scenario) { s.Currency = "XYZ" }, "unknown currency"},
		{"blank name", func(s *domain.Scenario) { s.Name = " " }, "scenario name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewScenario("Valid", time.Time{})
			s.MonthlyRetirementExpenses = dp("3000")
			tt.mutate(s)

			err := NewInputParser().ValidateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateExampleConfiguration(t *testing.T) {
	plan, err := NewInputParser().CreateExampleConfiguration()
	require.NoError(t, err)

	assert.Equal(t, "Early retirement at 60", plan.Scenario.Name)
	assert.True(t, plan.Scenario.IsPrimary)
	assert.Len(t, plan.Scenario.PensionSources, 2)
	assert.Len(t, plan.Loans, 1)
	require.Len(t, plan.Bauspar, 1)
	assert.Equal(t, calculation.BausparSaving, plan.Bauspar[0].Phase)
	assert.Equal(t, 84, *plan.Bauspar[0].MinimumSavingsPeriodMonths)

	// The example round-trips through a file on disk
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, ExamplePlanYAML(), 0o644))
	fromFile, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, plan.Scenario.ID, fromFile.Scenario.ID)
}

func dp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
