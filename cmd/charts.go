package cmd

import (
	"fmt"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/output"
	"github.com/spf13/cobra"
)

var (
	timelineYears    int
	projectionMonths int
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the income timeline chart data as JSON",
	RunE:  runTimeline,
}

var projectionCmd = &cobra.Command{
	Use:   "projection",
	Short: "Print the portfolio projection chart data as JSON",
	Long: "Project the portfolio month by month. Without --months the horizon runs\n" +
		"until the projected retirement date, between 12 and 360 months.",
	RunE: runProjection,
}

func init() {
	timelineCmd.Flags().IntVar(&timelineYears, "years", calculation.DefaultTimelineYears, "Timeline horizon in years")
	projectionCmd.Flags().IntVar(&projectionMonths, "months", 0, "Projection horizon in months (max 480)")
	rootCmd.AddCommand(timelineCmd, projectionCmd)
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	return writeChart(cmd, output.BuildIncomeTimelineChart(plan.Scenario, timelineYears))
}

func runProjection(cmd *cobra.Command, _ []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	chart := output.BuildPortfolioProjectionChart(plan.Scenario, plan.Inputs.MedianMonthlySurplus, projectionMonths)
	if !chart.Metadata.HasData {
		log.Warnf("%s: nothing to project", plan.Scenario.Name)
	}
	return writeChart(cmd, chart)
}

func writeChart(cmd *cobra.Command, chart any) error {
	data, err := output.MarshalChart(chart)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
