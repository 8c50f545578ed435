package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used for number formatting when none is set
const DefaultLocale = "de-DE"

// ConsoleFormatter renders a human-readable report. Amounts use the
// currency's own display rules; percentages and counts follow Locale.
type ConsoleFormatter struct {
	Locale string
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) printer() *message.Printer {
	locale := c.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.German
	}
	return message.NewPrinter(tag)
}

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	p := c.printer()
	s := r.Summary
	money := func(d *decimal.Decimal) string {
		if d == nil {
			return "n/a"
		}
		return FormatCurrency(*d, s.Currency)
	}
	pct := func(d decimal.Decimal) string {
		return p.Sprintf("%v%%", number.Decimal(d.InexactFloat64(), number.Scale(1)))
	}

	title := "RETIREMENT SCENARIO: " + s.Scenario
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len([]rune(title))))
	fmt.Fprintf(&buf, "Calculated on %s (%s)\n", s.CalculationDate, s.Currency)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range r.Assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "PORTFOLIO")
	fmt.Fprintln(&buf, "---------")
	if s.RequiredPortfolioValue == nil {
		fmt.Fprintln(&buf, "  Incomplete scenario: set monthly retirement expenses to calculate.")
	} else {
		fmt.Fprintf(&buf, "  Monthly expenses:      %s\n", money(s.MonthlyExpenses))
		fmt.Fprintf(&buf, "  Pension income:        %s\n", money(s.TotalPensionIncome))
		fmt.Fprintf(&buf, "  Income gap:            %s\n", money(s.IncomeGapMonthly))
		fmt.Fprintf(&buf, "  Required portfolio:    %s\n", money(s.RequiredPortfolioValue))
		fmt.Fprintf(&buf, "  Current portfolio:     %s\n", money(s.CurrentPortfolioValue))
		fmt.Fprintf(&buf, "  Portfolio gap:         %s\n", money(s.PortfolioGap))
		fmt.Fprintf(&buf, "  Progress:              %s\n", pct(s.ProgressPercent))
		fmt.Fprintf(&buf, "  Pension coverage:      %s\n", pct(s.PensionCoveragePercent))
		switch {
		case s.CanRetireNow:
			fmt.Fprintln(&buf, "  Retirement:            ready now")
		case s.ProjectedRetirementDate != nil && s.MonthsUntilRetirement != nil:
			fmt.Fprintf(&buf, "  Retirement:            %s (%s)\n", *s.ProjectedRetirementDate, p.Sprintf("%d months", *s.MonthsUntilRetirement))
		default:
			fmt.Fprintln(&buf, "  Retirement:            not reached within 40 years")
		}
	}
	fmt.Fprintln(&buf)

	if g := r.GapPeriod; g != nil {
		fmt.Fprintln(&buf, "INCOME GAP")
		fmt.Fprintln(&buf, "----------")
		fmt.Fprintf(&buf, "  %s to %s: %s\n", g.StartDate, g.EndDate, p.Sprintf("%d months", g.Months))
		fmt.Fprintf(&buf, "  Monthly shortfall:     %s\n", money(decimalPtr(g.MonthlyShortfall)))
		fmt.Fprintf(&buf, "  Total needed:          %s\n", money(decimalPtr(g.TotalNeeded)))
		if g.CanBridge {
			fmt.Fprintln(&buf, "  Covered by the current portfolio")
		} else {
			fmt.Fprintln(&buf, "  Not covered by the current portfolio")
		}
		fmt.Fprintln(&buf)
	}

	if len(r.Milestones) > 0 {
		fmt.Fprintln(&buf, "MILESTONES")
		fmt.Fprintln(&buf, "----------")
		for _, m := range r.Milestones {
			line := fmt.Sprintf("  %s  %s", m.Date, m.Label)
			if m.Amount != nil {
				line += " (" + money(decimalPtr(*m.Amount)) + ")"
			}
			fmt.Fprintln(&buf, line)
		}
		fmt.Fprintln(&buf)
	}

	if len(r.Loans) > 0 {
		fmt.Fprintln(&buf, "PRIVATE LOANS")
		fmt.Fprintln(&buf, "-------------")
		for _, l := range r.Loans {
			fmt.Fprintf(&buf, "  %s (%s): outstanding %s, monthly %s, total interest %s, repaid %s\n",
				l.Name, l.RepaymentType, money(&l.Outstanding), money(l.MonthlyPayment), money(l.TotalInterest), pct(l.ProgressPercent))
			if l.PastDue {
				fmt.Fprintln(&buf, "    past due")
			}
		}
		fmt.Fprintln(&buf)
	}

	if len(r.Bauspar) > 0 {
		fmt.Fprintln(&buf, "BAUSPAR CONTRACTS")
		fmt.Fprintln(&buf, "-----------------")
		for _, b := range r.Bauspar {
			fmt.Fprintf(&buf, "  %s (%s): saved %s of %s (%s), loan %s\n",
				b.Name, b.PhaseDescription, money(&b.Balance), money(&b.SavingsTarget), pct(b.SavingsProgressPercent), money(&b.AvailableLoanAmount))
			if b.AllocationReady {
				fmt.Fprintln(&buf, "    ready for allocation")
			}
			if len(b.Subsidies) > 0 {
				fmt.Fprintf(&buf, "    subsidies: %s\n", strings.Join(b.Subsidies, ", "))
			}
		}
		fmt.Fprintln(&buf)
	}
	return buf.Bytes(), nil
}

// decimalPtr parses an already rounded amount string
func decimalPtr(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
