package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	r := BuildReport(steadyScenario(t), 1)

	s := r.Summary
	assert.Equal(t, "Steady saver", s.Scenario)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, "2025-01-01", s.CalculationDate)
	require.NotNil(t, s.RequiredPortfolioValue)
	assert.Equal(t, "450000", s.RequiredPortfolioValue.String())
	assert.Equal(t, "225000", s.PortfolioGap.String())
	assert.Equal(t, "50", s.ProgressPercent.String())
	assert.Equal(t, "50", s.PensionCoveragePercent.String())
	require.NotNil(t, s.ProjectedRetirementDate)
	assert.Equal(t, "2037-07-01", *s.ProjectedRetirementDate)
	require.NotNil(t, s.MonthsUntilRetirement)
	assert.Equal(t, 150, *s.MonthsUntilRetirement)
	assert.False(t, s.CanRetireNow)
	assert.False(t, s.PensionSelfSufficient)

	assert.Len(t, r.Timeline, 12)
	assert.Nil(t, r.GapPeriod)
	assert.Contains(t, r.Assumptions, "Portfolio growth: 0.0% per year")
	assert.Contains(t, r.Assumptions, "Portfolio withdrawal rate: 4.0% per year")
	assert.Contains(t, r.Assumptions[len(r.Assumptions)-1], "1,500.00")
}

func TestBuildReport_GapAndIncomplete(t *testing.T) {
	r := BuildReport(gapScenario(t), 2)
	require.NotNil(t, r.GapPeriod)
	assert.Equal(t, 12, r.GapPeriod.Months)
	assert.Len(t, r.Milestones, 4)

	empty := BuildReport(domain.NewScenario("Empty", day(2025, time.January, 1)), 1)
	assert.Nil(t, empty.Summary.RequiredPortfolioValue)
	assert.Nil(t, empty.Summary.MonthsUntilRetirement)
	assert.True(t, empty.Summary.ProgressPercent.IsZero())
	assert.Contains(t, empty.Assumptions, "Monthly contribution: median monthly surplus")
}

func TestReport_AddLoanAndBauspar(t *testing.T) {
	today := day(2025, time.January, 1)
	r := BuildReport(steadyScenario(t), 1)

	r.AddLoan("Loan to Jonas", calculation.PrivateLoan{
		Principal:     dec("10000"),
		InterestRate:  decp("6"),
		TermMonths:    24,
		RepaymentType: calculation.RepaymentBullet,
		Outstanding:   dec("10000"),
	}, today)
	require.Len(t, r.Loans, 1)
	l := r.Loans[0]
	assert.Equal(t, "bullet", l.RepaymentType)
	require.NotNil(t, l.MonthlyPayment)
	assert.Equal(t, "50", l.MonthlyPayment.String())
	require.NotNil(t, l.TotalInterest)
	assert.Equal(t, "1200", l.TotalInterest.String())
	require.NotNil(t, l.TotalRepayment)
	assert.Equal(t, "11200", l.TotalRepayment.String())
	assert.Equal(t, "Bullet (Interest Only, Principal at End)", l.RepaymentLabel)
	assert.Equal(t, "Not Specified", l.RateLabel)
	assert.Nil(t, l.MaturityDate)
	assert.Nil(t, l.ElapsedMonths)
	assert.True(t, l.ProgressPercent.IsZero())
	assert.False(t, l.PastDue)

	r.AddLoan("Annuity by default", calculation.PrivateLoan{Principal: dec("1000"), Outstanding: dec("1000")}, today)
	assert.Equal(t, "annuity", r.Loans[1].RepaymentType)

	r.AddBauspar("Schwäbisch Hall", calculation.BausparContract{
		Bausparsumme:               dec("50000"),
		Phase:                      calculation.BausparSaving,
		Balance:                    dec("10000"),
		WohnungsbauPraemieEligible: true,
	}, today)
	require.Len(t, r.Bauspar, 1)
	b := r.Bauspar[0]
	assert.Equal(t, "20000", b.SavingsTarget.String())
	assert.Equal(t, "50", b.SavingsProgressPercent.String())
	assert.Equal(t, "40000", b.AvailableLoanAmount.String())
	assert.Equal(t, "200", b.SuggestedMonthlyContribution.String())
	assert.False(t, b.AllocationReady)
	assert.Equal(t, []string{"Wohnungsbauprämie"}, b.Subsidies)
	assert.Nil(t, b.ContractDurationYears)
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(BuildReport(steadyScenario(t), 1))
	require.NoError(t, err)

	var raw struct {
		Summary  map[string]any `json:"summary"`
		Timeline any            `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.Equal(t, "450000", raw.Summary["required_portfolio_value"])
	assert.Equal(t, "2037-07-01", raw.Summary["projected_retirement_date"])
	assert.Equal(t, float64(150), raw.Summary["months_until_retirement"])
	assert.Nil(t, raw.Timeline)
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(BuildReport(steadyScenario(t), 1))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,Currency,CalculationDate"))
	assert.Equal(t, "Steady saver,EUR,2025-01-01,3000.00,1500.00,1500.00,450000.00,225000.00,225000.00,50.0,50.0,2037-07-01,150,false", lines[1])
}

func TestCSVDetailedExporter(t *testing.T) {
	out, err := CSVDetailedExporter{}.Format(BuildReport(gapScenario(t), 2))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 25)
	assert.Equal(t, "Date,Salary,StatePension,PrivatePensions,Other,TotalIncome,Expenses,SurplusDeficit,InGapPeriod", lines[0])
	assert.Equal(t, "2040-11-01,6000.00,0.00,0.00,0.00,6000.00,4000.00,2000.00,false", lines[1])
	assert.Equal(t, "2041-01-01,0.00,0.00,0.00,0.00,0.00,4000.00,-4000.00,true", lines[3])
}

func TestConsoleFormatter(t *testing.T) {
	r := BuildReport(gapScenario(t), 2)
	r.AddLoan("Loan to Jonas", calculation.PrivateLoan{
		Principal:     dec("10000"),
		InterestRate:  decp("6"),
		TermMonths:    24,
		RepaymentType: calculation.RepaymentBullet,
		Outstanding:   dec("10000"),
	}, day(2040, time.November, 1))

	out, err := ConsoleFormatter{Locale: "en-US"}.Format(r)
	require.NoError(t, err)
	content := string(out)

	assert.True(t, strings.HasPrefix(content, "RETIREMENT SCENARIO: With gap\n"))
	assert.Contains(t, content, "KEY ASSUMPTIONS:")
	assert.Contains(t, content, "750,000.00")
	assert.Contains(t, content, "not reached within 40 years")
	assert.Contains(t, content, "INCOME GAP")
	assert.Contains(t, content, "2041-01-01 to 2041-12-31: 12 months")
	assert.Contains(t, content, "48,000.00")
	assert.Contains(t, content, "Not covered by the current portfolio")
	assert.Contains(t, content, "Gap period starts")
	assert.Contains(t, content, "PRIVATE LOANS")
	assert.Contains(t, content, "Loan to Jonas (bullet)")
}

func TestConsoleFormatter_Incomplete(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(BuildReport(domain.NewScenario("Empty", day(2025, time.January, 1)), 1))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Incomplete scenario")
	assert.NotContains(t, string(out), "INCOME GAP")
}

func TestFormatterAliasResolution(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"TXT", "console"},
		{" text ", "console"},
		{"csv-summary", "csv"},
		{"csv-timeline", "detailed-csv"},
		{"json-pretty", "json"},
	}
	for _, tt := range tests {
		f := GetFormatterByName(tt.name)
		require.NotNil(t, f, tt.name)
		assert.Equal(t, tt.want, f.Name(), tt.name)
	}
	assert.Nil(t, GetFormatterByName("html"))
	assert.Equal(t, []string{"console", "csv", "detailed-csv", "json"}, AvailableFormatterNames())
}

func TestGenerateReport(t *testing.T) {
	r := BuildReport(steadyScenario(t), 1)

	var buf bytes.Buffer
	require.NoError(t, GenerateReport(&buf, r, "json", "en-US"))
	assert.True(t, json.Valid(buf.Bytes()))

	buf.Reset()
	err := GenerateReport(&buf, r, "definitely-not-a-format", "en-US")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "Try one of:")
	assert.Zero(t, buf.Len())
}

func TestFormatterFor(t *testing.T) {
	f, err := FormatterFor("TXT", "en-US")
	require.NoError(t, err)
	assert.Equal(t, ConsoleFormatter{Locale: "en-US"}, f)

	f, err = FormatterFor("csv-timeline", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "detailed-csv", f.Name())

	_, err = FormatterFor("xml", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteFormatted(t *testing.T) {
	r := BuildReport(steadyScenario(t), 1)
	path := filepath.Join(t.TempDir(), "summary.csv")

	written, err := WriteFormatted(CSVSummarizer{}, r, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Scenario,"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "txt", Extension(ConsoleFormatter{}))
	assert.Equal(t, "csv", Extension(CSVSummarizer{}))
	assert.Equal(t, "csv", Extension(CSVDetailedExporter{}))
	assert.Equal(t, "json", Extension(JSONFormatter{}))
	assert.Equal(t, "yaml", Extension(FormatterFunc{ID: "yaml"}))
}
