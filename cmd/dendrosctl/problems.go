package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dendros/internal/problem"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List the built-in problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "NAME\tPOPULATION\tISLANDS\tMIGRATIONS\tDESCRIPTION")
		for _, p := range problem.All() {
			defaults := p.Defaults()
			fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%s\n",
				p.Name(), defaults.Population, defaults.Islands, defaults.Migrations, p.Description())
		}
		return writer.Flush()
	},
}

func init() {
	rootCmd.AddCommand(problemsCmd)
}
