package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/retirement-planner/pkg/dateutil"
)

// CSVDetailedExporter writes the monthly income timeline, one row per month.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Date", "Salary", "StatePension", "PrivatePensions", "Other", "TotalIncome", "Expenses", "SurplusDeficit", "InGapPeriod"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	places := r.currency().Fraction()
	for _, row := range r.Timeline {
		rec := []string{
			dateutil.Format(row.Date),
			row.Income.Salary.StringFixed(places),
			row.Income.StatePension.StringFixed(places),
			row.Income.PrivatePensions.StringFixed(places),
			row.Income.Other.StringFixed(places),
			row.TotalIncome.StringFixed(places),
			row.Expenses.StringFixed(places),
			row.SurplusDeficit.StringFixed(places),
			boolToString(row.InGapPeriod),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
