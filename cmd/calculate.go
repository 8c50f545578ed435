package cmd

import (
	"fmt"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/config"
	"github.com/rpgo/retirement-planner/internal/output"
	"github.com/spf13/cobra"
)

var (
	calcYears  int
	calcOutput string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Recalculate the scenario and print the retirement report",
	RunE:  runCalculate,
}

func init() {
	calculateCmd.Flags().IntVar(&calcYears, "years", calculation.DefaultTimelineYears, "Income timeline horizon in years")
	calculateCmd.Flags().StringVarP(&calcOutput, "output", "o", "", "Write the report to a file (\"-\" generates a name)")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, _ []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}

	r := buildReport(plan, calcYears)

	if calcOutput == "" {
		return output.GenerateReport(cmd.OutOrStdout(), r, flagFormat, settings.Locale)
	}

	f, err := output.FormatterFor(flagFormat, settings.Locale)
	if err != nil {
		return err
	}
	path := calcOutput
	if path == "-" {
		path = ""
	}
	written, err := output.WriteFormatted(f, r, path)
	if err != nil {
		return err
	}
	log.Infof("report written to %s", written)
	fmt.Fprintln(cmd.OutOrStdout(), written)
	return nil
}

func buildReport(plan *config.Plan, years int) *output.Report {
	r := output.BuildReport(plan.Scenario, years)
	today := calculation.Today()
	for _, l := range plan.Loans {
		r.AddLoan(l.Name, l.PrivateLoan, today)
	}
	for _, b := range plan.Bauspar {
		r.AddBauspar(b.Name, b.BausparContract, today)
	}
	return r
}
