package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/retirement-planner/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Show repayment details of the plan's private loans",
	RunE:  runLoan,
}

var bausparCmd = &cobra.Command{
	Use:   "bauspar",
	Short: "Show savings and allocation status of the plan's Bauspar contracts",
	RunE:  runBauspar,
}

func init() {
	rootCmd.AddCommand(loanCmd, bausparCmd)
}

func runLoan(cmd *cobra.Command, _ []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	r := buildReport(plan, 1)
	if output.NormalizeFormatName(flagFormat) == "json" {
		return writeChart(cmd, r.Loans)
	}

	w := cmd.OutOrStdout()
	if len(r.Loans) == 0 {
		fmt.Fprintln(w, "No private loans in plan")
		return nil
	}
	cur := plan.Scenario.Currency
	for _, l := range r.Loans {
		fmt.Fprintf(w, "%s: %s, %s\n", l.Name, l.RepaymentLabel, l.RateLabel)
		fmt.Fprintf(w, "  Principal:        %s\n", output.FormatCurrency(l.Principal, cur))
		fmt.Fprintf(w, "  Outstanding:      %s (%s%% repaid)\n", output.FormatCurrency(l.Outstanding, cur), l.ProgressPercent.StringFixed(1))
		if l.InterestRate != nil {
			fmt.Fprintf(w, "  Interest rate:    %s%%\n", l.InterestRate.StringFixed(2))
		}
		printMoney(w, "  Monthly payment:  ", l.MonthlyPayment, cur)
		printMoney(w, "  Total interest:   ", l.TotalInterest, cur)
		printMoney(w, "  Total repayment:  ", l.TotalRepayment, cur)
		if l.MaturityDate != nil {
			status := ""
			if l.PastDue {
				status = " (past due)"
			}
			fmt.Fprintf(w, "  Maturity:         %s%s\n", *l.MaturityDate, status)
		}
		if l.ElapsedMonths != nil {
			fmt.Fprintf(w, "  Months elapsed:   %s\n", l.ElapsedMonths.StringFixed(1))
		}
	}
	return nil
}

func runBauspar(cmd *cobra.Command, _ []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	r := buildReport(plan, 1)
	if output.NormalizeFormatName(flagFormat) == "json" {
		return writeChart(cmd, r.Bauspar)
	}

	w := cmd.OutOrStdout()
	if len(r.Bauspar) == 0 {
		fmt.Fprintln(w, "No Bauspar contracts in plan")
		return nil
	}
	cur := plan.Scenario.Currency
	for _, b := range r.Bauspar {
		fmt.Fprintf(w, "%s: %s\n", b.Name, b.PhaseDescription)
		fmt.Fprintf(w, "  Bausparsumme:     %s\n", output.FormatCurrency(b.Bausparsumme, cur))
		fmt.Fprintf(w, "  Balance:          %s of %s (%s%%)\n", output.FormatCurrency(b.Balance, cur),
			output.FormatCurrency(b.SavingsTarget, cur), b.SavingsProgressPercent.StringFixed(1))
		fmt.Fprintf(w, "  Loan available:   %s\n", output.FormatCurrency(b.AvailableLoanAmount, cur))
		fmt.Fprintf(w, "  Suggested saving: %s/month\n", output.FormatCurrency(b.SuggestedMonthlyContribution, cur))
		if b.ContractDurationYears != nil {
			fmt.Fprintf(w, "  Running for:      %s years\n", b.ContractDurationYears.StringFixed(1))
		}
		switch {
		case b.AllocationReady:
			fmt.Fprintln(w, "  Allocation:       ready")
		case b.YearsUntilAllocation != nil:
			fmt.Fprintf(w, "  Allocation:       in about %s years\n", b.YearsUntilAllocation.StringFixed(1))
		default:
			fmt.Fprintf(w, "  Allocation:       minimum period ends in %d months\n", b.MonthsUntilMinimumPeriod)
		}
		if len(b.Subsidies) > 0 {
			fmt.Fprintf(w, "  Subsidies:        %s\n", strings.Join(b.Subsidies, ", "))
		}
	}
	return nil
}

func printMoney(w io.Writer, label string, d *decimal.Decimal, cur string) {
	if d == nil {
		return
	}
	fmt.Fprintf(w, "%s%s\n", label, output.FormatCurrency(*d, cur))
}
