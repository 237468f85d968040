package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"dendros/internal/problem"
	"dendros/pkg/dendros"
	"dendros/pkg/gene"
)

var (
	benchProblem    string
	benchRepeats    int
	benchSeed       int64
	benchIterations int
	benchMigrations int
	benchPopulation int
	benchIslands    int
	benchWorkers    int
	benchSeriesOut  string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Repeat seeded runs and aggregate best scores",
	Long: `Runs the same problem repeatedly with consecutive seeds and reports
mean, standard deviation, and extrema of the final best scores. No run
is persisted.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchProblem, "problem", "quadratic", "problem name")
	benchCmd.Flags().IntVar(&benchRepeats, "repeats", 5, "number of seeded runs")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "first seed; run i uses seed+i")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 0, "generations per migration round")
	benchCmd.Flags().IntVar(&benchMigrations, "migrations", 0, "migration rounds")
	benchCmd.Flags().IntVar(&benchPopulation, "population", 0, "individuals per island")
	benchCmd.Flags().IntVar(&benchIslands, "islands", 0, "island count")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "island pool bound")
	benchCmd.Flags().StringVar(&benchSeriesOut, "out", "", "write the per-run score series as CSV")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchRepeats <= 0 {
		return fmt.Errorf("repeats must be positive, got %d", benchRepeats)
	}
	prob, err := problem.ByName(benchProblem)
	if err != nil {
		return err
	}

	scores := make([]float64, 0, benchRepeats)
	evaluations := 0
	for i := 0; i < benchRepeats; i++ {
		cfg := benchConfig(prob, benchSeed+int64(i))
		result, err := dendros.Run(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		scores = append(scores, result.BestScore)
		evaluations += result.Evaluations
		slog.Debug("bench run finished", "run", i+1, "seed", cfg.Seed, "best_score", result.BestScore)
	}

	mean, std, max, min := bestSeriesStats(scores)
	slog.Info("bench finished",
		"problem", prob.Name(),
		"repeats", benchRepeats,
		"mean", mean,
		"std", std,
		"min", min,
		"max", max,
		"evaluations", evaluations,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s over %d runs: mean=%.6g std=%.6g min=%.6g max=%.6g\n",
		prob.Name(), benchRepeats, mean, std, min, max)

	if benchSeriesOut != "" {
		if err := writeBenchSeries(benchSeriesOut, scores); err != nil {
			return err
		}
	}
	return nil
}

func benchConfig(prob problem.Problem, seed int64) dendros.Config {
	defaults := prob.Defaults()
	sets := prob.Sets()
	cfg := dendros.Config{
		Iterations:     defaults.Iterations,
		Migrations:     defaults.Migrations,
		Islands:        defaults.Islands,
		Population:     defaults.Population,
		TournamentSize: defaults.Tournament,
		MutationProb:   defaults.MutationProb,
		MutationDepth:  defaults.MutationDepth,
		MaxDepth:       defaults.MaxDepth,
		Terminals:      sets.Terminals,
		Numbers:        sets.Numbers,
		Functions:      sets.Functions,
		Fitness:        prob.Evaluate,
		Report:         func(best gene.Individual, score float64) {},
		Seed:           seed,
		Workers:        benchWorkers,
	}
	if benchIterations > 0 {
		cfg.Iterations = benchIterations
	}
	if benchMigrations > 0 {
		cfg.Migrations = benchMigrations
	}
	if benchPopulation > 0 {
		cfg.Population = benchPopulation
	}
	if benchIslands > 0 {
		cfg.Islands = benchIslands
	}
	return cfg
}

func writeBenchSeries(path string, scores []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"run", "best_score"}); err != nil {
		return err
	}
	for i, score := range scores {
		if err := writer.Write([]string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(score, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func bestSeriesStats(values []float64) (mean, std, max, min float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	min = values[0]
	max = values[0]
	total := 0.0
	for _, value := range values {
		total += value
		if value > max {
			max = value
		}
		if value < min {
			min = value
		}
	}
	mean = total / float64(len(values))
	sumSq := 0.0
	for _, value := range values {
		diff := mean - value
		sumSq += diff * diff
	}
	std = math.Sqrt(sumSq / float64(len(values)))
	return mean, std, max, min
}
