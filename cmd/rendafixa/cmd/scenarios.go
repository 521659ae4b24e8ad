package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rustyeddy/rendafixa/report"
	"github.com/rustyeddy/rendafixa/sim"
	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Compare index-rate scenarios for one portfolio",
	Long: `Simulate the configured portfolio once per scenario, concurrently, and
print the outcomes side by side. The base scenario always comes first.

Example:
  rendafixa scenarios -f examples/configs/carteira.yaml`,
	RunE: runScenarios,
}

var scenariosConfigPath string

func init() {
	rootCmd.AddCommand(scenariosCmd)

	scenariosCmd.Flags().StringVarP(&scenariosConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	scenariosCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not log simulation progress")
	scenariosCmd.MarkFlagRequired("file")
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(scenariosConfigPath)
	if err != nil {
		return err
	}

	scenarios, err := cfg.BuildScenarios()
	if err != nil {
		return fmt.Errorf("build scenarios: %w", err)
	}

	store, where, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start, end := cfg.Window()
	runs, err := sim.RunScenarios(ctx, cfg.Build, scenarios, start, end, sim.Options{
		Name:          cfg.Portfolio.Name,
		Journal:       store,
		Contributions: cfg.Simulation.Contributions,
		Logger:        newLogger(),
	})
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %s to %s\n\n", cfg.Portfolio.Name, start.Format("2006-01"), end.Format("2006-01"))
	if err := report.PrintScenarios(out, runs); err != nil {
		return err
	}
	if where != "" {
		fmt.Fprintf(out, "\nResults saved to: %s\n", where)
	}
	return nil
}
