package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dendros/pkg/dendros"
)

var (
	runsLimit       int
	exportRunID     string
	exportLatest    bool
	exportOutputDir string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		items, err := client.Runs(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "RUN\tCREATED\tPROBLEM\tSEED\tROUNDS\tBEST")
		for _, item := range items {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%d\t%.6g\n",
				item.RunID, item.CreatedAtUTC, item.Problem, item.Seed, item.Rounds, item.BestScore)
		}
		return writer.Flush()
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy a run's artifacts into the exports directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		summary, err := client.Export(cmd.Context(), dendros.ExportRequest{
			RunID:  exportRunID,
			Latest: exportLatest,
			OutDir: exportOutputDir,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", summary.RunID, summary.Directory)
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	runsExportCmd.Flags().StringVar(&exportRunID, "run-id", "", "run to export")
	runsExportCmd.Flags().BoolVar(&exportLatest, "latest", false, "export the most recent run")
	runsExportCmd.Flags().StringVar(&exportOutputDir, "out", "", "export destination directory")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
