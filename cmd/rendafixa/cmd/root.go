package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rendafixa",
	Short: "A monthly simulator for Brazilian fixed-income portfolios",
	Long: `Rendafixa simulates Brazilian fixed-income instruments month by month.

It provides tools for:
  - Simulating IPCA+, CDI, Selic and prefixado instruments
  - Combining instruments into portfolios with periodic contributions
  - Comparing index-rate scenarios side by side
  - Journaling runs to CSV or SQLite and exporting Org reports

Complete documentation is available at https://github.com/rustyeddy/rendafixa`,
	SilenceUsage: true,
}

var envFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with RENDAFIXA_* overrides")
}
