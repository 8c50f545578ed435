// Package cmd implements the retireplan CLI commands.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/config"
	"github.com/rpgo/retirement-planner/internal/logging"
	"github.com/rpgo/retirement-planner/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagPlan     string
	flagSettings string
	flagDatabase string
	flagLogLevel string
	flagFormat   string
)

// settings and log are set up before any subcommand runs
var (
	settings *config.Settings
	log      *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "retireplan",
	Short: "Retirement gap planner",
	Long: "Calculate how large a portfolio must be to cover the gap between retirement\n" +
		"expenses and guaranteed pension income, when it will be reached, and how\n" +
		"actual progress compares with earlier snapshots.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPlan, "plan", "p", "plan.yaml", "Scenario input file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Settings file (env: "+config.EnvPrefix+"_*)")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "", "Snapshot database: sqlite path or postgres URL (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides settings)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "console", "Output format")
}

func setup(cmd *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(flagSettings)
	if err != nil {
		return err
	}
	if flagDatabase != "" {
		s.Database = flagDatabase
	}
	if flagLogLevel != "" {
		s.LogLevel = flagLogLevel
	}
	settings = s
	log = logging.New(s.LogLevel, cmd.ErrOrStderr())
	return nil
}

// loadPlan parses the plan file and recalculates its scenario. An
// incomplete scenario is returned with empty outputs.
func loadPlan() (*config.Plan, error) {
	parser := config.NewInputParser()
	parser.DefaultCurrency = settings.Currency
	plan, err := parser.LoadFromFile(flagPlan)
	if err != nil {
		return nil, err
	}

	calc := calculation.NewScenarioCalculator()
	calc.SetLogger(log.With("scenario", plan.Scenario.Name))
	if err := calc.Recalculate(plan.Scenario, plan.Inputs); err != nil {
		if !errors.Is(err, calculation.ErrIncompleteScenario) {
			return nil, err
		}
		log.Warnf("%s: %v, outputs left empty", plan.Scenario.Name, err)
		if plan.Scenario.CalculationDate.IsZero() {
			plan.Scenario.CalculationDate = calculation.Today()
		}
	}
	return plan, nil
}

// openStore opens and migrates the snapshot database from settings. The
// caller closes the store.
func openStore(ctx context.Context) (*store.SnapshotStore, error) {
	db, err := store.Open(settings.Database)
	if err != nil {
		return nil, err
	}
	st := store.NewSnapshotStore(db)
	if err := st.AutoMigrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	log.Debugf("snapshot store ready at %s", settings.Database)
	return st, nil
}

func closeStore(st *store.SnapshotStore) {
	if err := st.Close(); err != nil {
		log.Warnf("closing snapshot store: %v", err)
	}
}
