package output

import (
	"bytes"
	"encoding/csv"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Currency", "CalculationDate", "MonthlyExpenses", "TotalPensionIncome", "IncomeGapMonthly", "RequiredPortfolioValue", "CurrentPortfolioValue", "PortfolioGap", "ProgressPercent", "PensionCoveragePercent", "ProjectedRetirementDate", "MonthsUntilRetirement", "CanRetireNow"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	s := r.Summary
	places := r.currency().Fraction()
	months := ""
	if s.MonthsUntilRetirement != nil {
		months = intToString(*s.MonthsUntilRetirement)
	}
	retirement := ""
	if s.ProjectedRetirementDate != nil {
		retirement = *s.ProjectedRetirementDate
	}
	row := []string{
		s.Scenario,
		s.Currency,
		s.CalculationDate,
		optionalString(s.MonthlyExpenses, places),
		optionalString(s.TotalPensionIncome, places),
		optionalString(s.IncomeGapMonthly, places),
		optionalString(s.RequiredPortfolioValue, places),
		optionalString(s.CurrentPortfolioValue, places),
		optionalString(s.PortfolioGap, places),
		s.ProgressPercent.StringFixed(1),
		s.PensionCoveragePercent.StringFixed(1),
		retirement,
		months,
		boolToString(s.CanRetireNow),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
