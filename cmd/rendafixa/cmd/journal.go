package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rustyeddy/rendafixa/journal"
	"github.com/rustyeddy/rendafixa/report"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query simulation runs from the SQLite journal",
	Long: `Query and display simulation runs recorded in a SQLite journal.

Subcommands:
  list     - List recorded runs, newest first
  show     - Print the summary of a run
  coupons  - Print the coupons paid per instrument in a run
  org      - Export a run as an Org-mode report

Examples:
  rendafixa journal list
  rendafixa journal show <run-id>
  rendafixa journal org <run-id> -o run.org`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the summary of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalCouponsCmd = &cobra.Command{
	Use:   "coupons <run-id>",
	Short: "Print coupon totals per instrument",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalCoupons,
}

var journalOrgCmd = &cobra.Command{
	Use:   "org <run-id>",
	Short: "Export a run as an Org-mode report",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalOrg,
}

var (
	journalDBPath string
	journalOrgOut string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalCouponsCmd)
	journalCmd.AddCommand(journalOrgCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./rendafixa.db", "path to SQLite journal DB")
	journalOrgCmd.Flags().StringVarP(&journalOrgOut, "output", "o", "", "write the report to this file instead of stdout")
}

func openSQLite() (*journal.SQLiteJournal, error) {
	if _, err := os.Stat(journalDBPath); err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tScenario\tWindow\tFinal\tReturn\t")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s..%s\t%s\t%s\t\n", r.ID, r.Name, r.Scenario,
			r.Start.Format("2006-01"), r.End.Format("2006-01"),
			report.BRL(r.Final), report.Percent(r.TotalReturn))
	}
	return tw.Flush()
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	report.PrintRun(cmd.OutOrStdout(), run)
	return nil
}

func runJournalCoupons(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	if _, err := j.GetRun(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	totals, err := j.CouponTotals(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("query coupons: %w", err)
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Instrument\tCoupons\t")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\t\n", name, report.BRL(totals[name]))
	}
	return tw.Flush()
}

func runJournalOrg(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	s, err := j.ExportRunOrg(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("export run: %w", err)
	}
	if journalOrgOut == "" {
		fmt.Fprint(cmd.OutOrStdout(), s)
		return nil
	}
	if err := os.WriteFile(journalOrgOut, []byte(s), 0644); err != nil {
		return fmt.Errorf("write org report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", journalOrgOut)
	return nil
}
