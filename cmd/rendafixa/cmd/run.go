package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/rustyeddy/rendafixa/config"
	"github.com/rustyeddy/rendafixa/journal"
	"github.com/rustyeddy/rendafixa/portfolio"
	"github.com/rustyeddy/rendafixa/report"
	"github.com/rustyeddy/rendafixa/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a portfolio from a config file",
	Long: `Simulate a portfolio month by month using a configuration file.

The config file lists the instruments, the simulation window, periodic
contributions and the index rates of the base scenario.

Example:
  rendafixa run -f examples/configs/carteira.yaml --table`,
	RunE: runRun,
}

var (
	runConfigPath string
	runTable      bool
	runCoupons    bool
	runCSVPath    string
	runQuiet      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().BoolVar(&runTable, "table", false, "print the monthly value of every instrument")
	runCmd.Flags().BoolVar(&runCoupons, "coupons", false, "print the coupon payouts")
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "write the monthly value table to this CSV file")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not log simulation progress")
	runCmd.MarkFlagRequired("file")
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return cfg, nil
}

// openJournal returns the journal selected by the config and a description
// of where it writes.
func openJournal(jc config.JournalConfig) (journal.Journal, string, error) {
	switch jc.Type {
	case "csv":
		j, err := journal.NewCSV(jc.Dir)
		return j, jc.Dir, err
	case "sqlite":
		j, err := journal.NewSQLite(jc.DBPath)
		return j, jc.DBPath, err
	default:
		return journal.Discard, "", nil
	}
}

func newLogger() *log.Logger {
	if runQuiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "rendafixa: ", log.LstdFlags)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}

	p, err := cfg.Build(cfg.Source())
	if err != nil {
		return fmt.Errorf("build portfolio: %w", err)
	}

	store, where, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer store.Close()

	mem := journal.NewMemory()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := sim.Driver{
		Portfolio:     p,
		Journal:       journal.Tee(store, mem),
		Contributions: cfg.Simulation.Contributions,
		Logger:        newLogger(),
		Name:          cfg.Portfolio.Name,
		Scenario:      config.BaseScenario,
		OrgPath:       cfg.Journal.OrgPath,
	}
	start, end := cfg.Window()
	run, err := d.Run(ctx, start, end)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	out := cmd.OutOrStdout()
	report.PrintRun(out, run)

	res, _ := p.Result()
	if runTable {
		fmt.Fprintln(out, "\nMonthly values:")
		if err := report.PrintTable(out, res.Table()); err != nil {
			return err
		}
	}
	if runCoupons {
		fmt.Fprintln(out, "\nCoupons:")
		if err := report.PrintTable(out, res.CouponTable()); err != nil {
			return err
		}
	}
	if runCSVPath != "" {
		if err := writeCSVFile(runCSVPath, res.Table()); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTable saved to: %s\n", runCSVPath)
	}
	if cfg.Journal.OrgPath != "" {
		err := journal.WriteRunOrg(cfg.Journal.OrgPath, journal.OrgReport{
			Run:       run,
			Snapshots: mem.Snapshots(run.ID),
			Coupons:   mem.Coupons(run.ID),
		})
		if err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
	}
	if where != "" {
		fmt.Fprintf(out, "\nResults saved to: %s\n", where)
	}
	return nil
}

func writeCSVFile(path string, t portfolio.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
