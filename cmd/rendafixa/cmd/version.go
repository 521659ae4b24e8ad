package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the rendafixa CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rendafixa version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "A monthly simulator for Brazilian fixed-income portfolios")
		fmt.Fprintln(cmd.OutOrStdout(), "https://github.com/rustyeddy/rendafixa")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
