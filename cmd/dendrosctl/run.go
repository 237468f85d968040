package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dendros/pkg/dendros"
)

var (
	runConfigPath     string
	runProblem        string
	runDataPath       string
	runPopulation     int
	runIterations     int
	runMigrations     int
	runIslands        int
	runTournamentSize int
	runMutationProb   float64
	runMutationDepth  int
	runMaxDepth       int
	runADFCount       int
	runADLCount       int
	runSeed           int64
	runWorkers        int
	runPolish         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evolve a named problem and persist the run",
	Long: `Runs the island engine against a named problem (or a CSV dataset),
stores the run record, and writes its artifact directory. Values from
--config apply first; explicitly set flags override them.`,
	RunE: runEvolution,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "YAML run config path")
	runCmd.Flags().StringVar(&runProblem, "problem", "", "problem name (default quadratic)")
	runCmd.Flags().StringVar(&runDataPath, "data", "", "CSV dataset path (selects the csv problem)")
	runCmd.Flags().IntVar(&runPopulation, "population", 0, "individuals per island")
	runCmd.Flags().IntVar(&runIterations, "iterations", 0, "generations per migration round")
	runCmd.Flags().IntVar(&runMigrations, "migrations", 0, "migration rounds")
	runCmd.Flags().IntVar(&runIslands, "islands", 0, "island count")
	runCmd.Flags().IntVar(&runTournamentSize, "tournament", 0, "tournament size")
	runCmd.Flags().Float64Var(&runMutationProb, "mutation-prob", 0, "mutation probability")
	runCmd.Flags().IntVar(&runMutationDepth, "mutation-depth", 0, "depth budget for fresh subtrees")
	runCmd.Flags().IntVar(&runMaxDepth, "max-depth", 0, "hard height cap")
	runCmd.Flags().IntVar(&runADFCount, "adf-count", 0, "ADFs per individual")
	runCmd.Flags().IntVar(&runADLCount, "adl-count", 0, "ADLs per individual")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "run seed (default time-based)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "island pool bound (default GOMAXPROCS)")
	runCmd.Flags().BoolVar(&runPolish, "polish", false, "hill-climb the best tree's constants after the run")
	rootCmd.AddCommand(runCmd)
}

func runEvolution(cmd *cobra.Command, args []string) error {
	req, err := buildRunRequest(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	slog.Info("starting run",
		"problem", req.Problem,
		"data", req.DataPath,
		"population", req.Population,
		"islands", req.Islands,
		"seed", req.Seed,
	)
	summary, err := client.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	slog.Info("run finished",
		"run_id", summary.RunID,
		"problem", summary.Problem,
		"best_score", summary.BestScore,
		"rounds", summary.Rounds,
		"evaluations", summary.Evaluations,
		"polished", summary.Polished,
		"artifacts", summary.ArtifactsDir,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "best (%.6g): %s\n", summary.BestScore, summary.BestRendered)
	return nil
}

func buildRunRequest(cmd *cobra.Command) (dendros.RunRequest, error) {
	var req dendros.RunRequest
	if runConfigPath != "" {
		loaded, err := loadRunRequest(runConfigPath)
		if err != nil {
			return dendros.RunRequest{}, err
		}
		req = loaded
	}
	applyRunFlagOverrides(cmd, &req)
	return req, nil
}

// applyRunFlagOverrides copies every explicitly set flag over the file
// config, so flags always win.
func applyRunFlagOverrides(cmd *cobra.Command, req *dendros.RunRequest) {
	flags := cmd.Flags()
	if flags.Changed("problem") {
		req.Problem = runProblem
	}
	if flags.Changed("data") {
		req.DataPath = runDataPath
	}
	if flags.Changed("population") {
		req.Population = runPopulation
	}
	if flags.Changed("iterations") {
		req.Iterations = runIterations
	}
	if flags.Changed("migrations") {
		req.Migrations = runMigrations
	}
	if flags.Changed("islands") {
		req.Islands = runIslands
	}
	if flags.Changed("tournament") {
		req.TournamentSize = runTournamentSize
	}
	if flags.Changed("mutation-prob") {
		req.MutationProb = runMutationProb
	}
	if flags.Changed("mutation-depth") {
		req.MutationDepth = runMutationDepth
	}
	if flags.Changed("max-depth") {
		req.MaxDepth = runMaxDepth
	}
	if flags.Changed("adf-count") {
		req.ADFCount = runADFCount
	}
	if flags.Changed("adl-count") {
		req.ADLCount = runADLCount
	}
	if flags.Changed("seed") {
		req.Seed = runSeed
	}
	if flags.Changed("workers") {
		req.Workers = runWorkers
	}
	if flags.Changed("polish") {
		req.Polish = runPolish
	}
}
