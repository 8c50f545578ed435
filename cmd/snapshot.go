package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/internal/output"
	"github.com/rpgo/retirement-planner/internal/store"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	snapshotNotes string
	snapshotDate  string
	historyClear  bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record the scenario's current state for later tracking",
	Long: "Capture portfolio value, required value and the projection from the last\n" +
		"snapshot. One snapshot per scenario and day.",
	RunE: runSnapshot,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the snapshot history chart data as JSON",
	RunE:  runHistory,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotNotes, "notes", "", "Free text stored with the snapshot")
	snapshotCmd.Flags().StringVar(&snapshotDate, "date", "", "Snapshot date YYYY-MM-DD (default: the plan's as_of date, else today)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all snapshots of the scenario")
	rootCmd.AddCommand(snapshotCmd, historyCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	date, err := snapshotDay(plan.Scenario)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)
	prev, err := st.LatestBefore(ctx, plan.Scenario.ID, date)
	if err != nil {
		return err
	}

	snap, err := calculation.CaptureSnapshot(plan.Scenario, prev, date, plan.Inputs.MedianMonthlySurplus, snapshotNotes)
	if err != nil {
		return err
	}
	if err := st.Create(ctx, &snap); err != nil {
		if errors.Is(err, store.ErrSnapshotExists) {
			return fmt.Errorf("%s already has a snapshot for %s", plan.Scenario.Name, dateutil.Format(date))
		}
		return err
	}

	value := decimal.Zero
	if snap.CurrentPortfolioValue != nil {
		value = *snap.CurrentPortfolioValue
	}
	log.Infof("snapshot %s recorded for %s", snap.ID, plan.Scenario.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s: %s (%s)\n", dateutil.Format(date),
		output.FormatCurrency(value, plan.Scenario.Currency), calculation.TrackingStatus(snap).Label())
	return nil
}

func snapshotDay(s *domain.Scenario) (time.Time, error) {
	if snapshotDate != "" {
		d, err := dateutil.Parse(snapshotDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", snapshotDate)
		}
		return d, nil
	}
	if !s.CalculationDate.IsZero() {
		return s.CalculationDate, nil
	}
	return calculation.Today(), nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if historyClear {
		n, err := st.DeleteScenario(ctx, plan.Scenario.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshots of %s\n", n, plan.Scenario.Name)
		return nil
	}

	snaps, err := st.List(ctx, plan.Scenario.ID)
	if err != nil {
		return err
	}
	return writeChart(cmd, output.BuildSnapshotHistoryChart(plan.Scenario, snaps))
}
