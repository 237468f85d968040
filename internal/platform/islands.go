// Package platform runs the multi-island evolution loop: independent
// populations evolve in parallel and exchange representatives between
// rounds over a ring.
package platform

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sourcegraph/conc/pool"

	"dendros/internal/evo"
	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

// Reporter observes the run-level best after every completed round
// except the last. The reported score never increases across a run.
type Reporter func(best gene.Individual, score float64)

// RunConfig configures a full multi-island run.
type RunConfig struct {
	Rounds              int
	GenerationsPerRound int
	Islands             [][]gene.Individual
	TournamentSize      int
	MutationProb        float64
	MutationDepth       int
	MaxDepth            int
	Module              genotype.ModuleSpec
	Evaluator           evo.Evaluator
	Report              Reporter
	Seed                int64
	Workers             int
}

// RunResult carries the final island populations and run-level best out
// of RunRounds.
type RunResult struct {
	Islands     [][]gene.Individual
	Best        gene.Individual
	BestScore   float64
	Rounds      int
	Evaluations int
}

// NewIslands builds k independent starting populations from the same
// module layout.
func NewIslands(rng *rand.Rand, k, size, mutationDepth int, spec genotype.ModuleSpec) ([][]gene.Individual, error) {
	if rng == nil {
		return nil, evo.ErrNoRand
	}
	if k <= 0 {
		return nil, errors.New("island count must be > 0")
	}
	islands := make([][]gene.Individual, k)
	for i := range islands {
		population, err := genotype.NewPopulation(rng, size, mutationDepth, spec)
		if err != nil {
			return nil, fmt.Errorf("island %d: %w", i, err)
		}
		islands[i] = population
	}
	return islands, nil
}

// Migrate shuffles each island and passes one representative around the
// ring: island i receives a clone of island (i+1) mod k's representative
// in exchange for its own. A single island is returned unchanged.
func Migrate(rng *rand.Rand, islands [][]gene.Individual) ([][]gene.Individual, error) {
	if rng == nil {
		return nil, evo.ErrNoRand
	}
	if len(islands) == 1 {
		return islands, nil
	}
	shuffled := make([][]gene.Individual, len(islands))
	for i, island := range islands {
		if len(island) == 0 {
			return nil, fmt.Errorf("island %d is empty", i)
		}
		next := make([]gene.Individual, len(island))
		copy(next, island)
		rng.Shuffle(len(next), func(a, b int) {
			next[a], next[b] = next[b], next[a]
		})
		shuffled[i] = next
	}
	// Swap after every island has shuffled so the exchanged individual is
	// the neighbor's own representative, not an already-migrated one.
	representatives := make([]gene.Individual, len(shuffled))
	for i := range shuffled {
		representatives[i] = shuffled[i][0].Clone()
	}
	for i := range shuffled {
		shuffled[i][0] = representatives[(i+1)%len(shuffled)]
	}
	return shuffled, nil
}

// RunRounds drives cfg.Rounds migration rounds. Every round migrates
// representatives, advances each island by cfg.GenerationsPerRound
// generations, folds the round best into the run best on strict
// improvement, and reports it. Islands evolve concurrently on up to
// cfg.Workers goroutines, each with its own deterministic random source,
// so a given seed reproduces the same run at any worker count. The run
// stops early when the best score reaches 0.
func RunRounds(ctx context.Context, cfg RunConfig) (RunResult, error) {
	if cfg.Rounds < 0 {
		return RunResult{}, errors.New("round count must be >= 0")
	}
	if cfg.GenerationsPerRound <= 0 {
		return RunResult{}, errors.New("generations per round must be > 0")
	}
	if len(cfg.Islands) == 0 {
		return RunResult{}, errors.New("at least one island is required")
	}
	if cfg.Evaluator == nil {
		return RunResult{}, errors.New("evaluator is required")
	}

	k := len(cfg.Islands)
	migrationRNG := rand.New(rand.NewSource(cfg.Seed))
	islandRNGs := make([]*rand.Rand, k)
	for i := range islandRNGs {
		islandRNGs[i] = rand.New(rand.NewSource(cfg.Seed + 1000*int64(i+1)))
	}
	params := evo.GenerationParams{
		Generations:    cfg.GenerationsPerRound,
		TournamentSize: cfg.TournamentSize,
		MutationProb:   cfg.MutationProb,
		MutationDepth:  cfg.MutationDepth,
		MaxDepth:       cfg.MaxDepth,
		Module:         cfg.Module,
	}
	workers := cfg.Workers
	if workers > k {
		workers = k
	}

	result := RunResult{Islands: cfg.Islands, BestScore: math.Inf(1)}
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		migrated, err := Migrate(migrationRNG, result.Islands)
		if err != nil {
			return RunResult{}, err
		}

		outcomes := make([]evo.GenerationResult, k)
		failures := make([]error, k)
		if k == 1 || workers <= 1 {
			for i := range migrated {
				outcomes[i], failures[i] = evo.RunGenerations(ctx, islandRNGs[i], migrated[i], params, cfg.Evaluator)
			}
		} else {
			workerPool := pool.New().WithMaxGoroutines(workers)
			for i := range migrated {
				workerPool.Go(func() {
					outcomes[i], failures[i] = evo.RunGenerations(ctx, islandRNGs[i], migrated[i], params, cfg.Evaluator)
				})
			}
			workerPool.Wait()
		}
		for i, err := range failures {
			if err != nil {
				return RunResult{}, fmt.Errorf("island %d: %w", i, err)
			}
		}

		for i, outcome := range outcomes {
			result.Islands[i] = outcome.Population
			result.Evaluations += outcome.Evaluations
			if outcome.BestScore < result.BestScore {
				result.Best = outcome.Best
				result.BestScore = outcome.BestScore
			}
		}
		result.Rounds = round + 1
		if result.BestScore <= 0 || round == cfg.Rounds-1 {
			break
		}
		if cfg.Report != nil {
			cfg.Report(result.Best, result.BestScore)
		}
	}
	return result, nil
}
