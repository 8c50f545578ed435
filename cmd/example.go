package cmd

import (
	"fmt"
	"os"

	"github.com/rpgo/retirement-planner/internal/config"
	"github.com/spf13/cobra"
)

var exampleForce bool

var exampleCmd = &cobra.Command{
	Use:   "example [path]",
	Short: "Write an example plan file",
	Long:  "Write the bundled example plan to path, or to stdout when no path is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExample,
}

func init() {
	exampleCmd.Flags().BoolVar(&exampleForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	data := config.ExamplePlanYAML()
	if len(args) == 0 {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	path := args[0]
	if _, err := os.Stat(path); err == nil && !exampleForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write example plan: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", path)
	return nil
}
