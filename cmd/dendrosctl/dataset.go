package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dendros/internal/dataset"
)

var (
	datasetOut    string
	datasetCoeffs string
	datasetFrom   float64
	datasetTo     float64
	datasetCount  int
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Work with regression datasets",
}

var datasetGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic polynomial dataset as CSV",
	Long: `Samples a polynomial over an interval and writes the (x, y) pairs as
CSV. Coefficients are comma-separated in ascending degree order, so
"1,2,1" generates x^2 + 2x + 1.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		coefficients, err := parseCoefficients(datasetCoeffs)
		if err != nil {
			return err
		}
		if err := dataset.Generate(datasetOut, coefficients, datasetFrom, datasetTo, datasetCount); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s\n", datasetCount, datasetOut)
		return nil
	},
}

func parseCoefficients(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	coefficients := make([]float64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parse coefficient %q: %w", part, err)
		}
		coefficients = append(coefficients, value)
	}
	return coefficients, nil
}

func init() {
	datasetGenerateCmd.Flags().StringVar(&datasetOut, "out", "dataset.csv", "output CSV path")
	datasetGenerateCmd.Flags().StringVar(&datasetCoeffs, "coefficients", "1,2,1", "polynomial coefficients, ascending degree")
	datasetGenerateCmd.Flags().Float64Var(&datasetFrom, "from", 0, "interval start")
	datasetGenerateCmd.Flags().Float64Var(&datasetTo, "to", 4, "interval end")
	datasetGenerateCmd.Flags().IntVar(&datasetCount, "count", 20, "sample count")
	datasetCmd.AddCommand(datasetGenerateCmd)
	rootCmd.AddCommand(datasetCmd)
}
