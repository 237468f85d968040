// Package dendros evolves expression trees with a multi-island genetic
// programming engine: tournament selection, subtree crossover and
// mutation, elitism, and ring migration between islands.
package dendros

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"dendros/internal/evo"
	"dendros/internal/genotype"
	"dendros/internal/platform"
	"dendros/pkg/gene"
)

// Evaluator scores one candidate; lower is better and 0 is a perfect
// solution. It may be called concurrently from multiple islands.
type Evaluator = evo.Evaluator

// Reporter observes the run-level best after every completed migration
// round except the last.
type Reporter = platform.Reporter

// Config drives one Run call. Zero values select the documented
// defaults for TournamentSize, MutationProb, MutationDepth, ADFArity,
// ADLLimit, Seed, and Workers; everything else is required.
type Config struct {
	Iterations     int                 // generations per migration round
	Migrations     int                 // migration rounds (0 runs nothing)
	Islands        int                 // independent populations
	Population     int                 // individuals per island
	TournamentSize int                 // selection pressure, default 3
	MutationProb   float64             // chance mutation applies, default 0.1
	MutationDepth  int                 // depth budget for fresh subtrees, default 6
	MaxDepth       int                 // hard height cap after breeding
	Terminals      []string            // symbolic leaves
	Numbers        []float64           // numeric-literal leaves
	Functions      []gene.FunctionSpec // function vocabulary
	Fitness        Evaluator
	Report         Reporter
	ADFArity       int   // parameters per ADF, default 1
	ADFCount       int   // ADFs per individual
	ADLCount       int   // ADLs per individual
	ADLLimit       int   // iteration bound per ADL, default 25
	Seed           int64 // default time-based
	Workers        int   // island pool bound, default GOMAXPROCS
}

// Result carries the final state of a run.
type Result struct {
	Islands     [][]gene.Individual
	Best        gene.Individual
	BestScore   float64
	Rounds      int
	Evaluations int
}

func (c *Config) applyDefaults() {
	if c.TournamentSize == 0 {
		c.TournamentSize = 3
	}
	if c.MutationProb == 0 {
		c.MutationProb = 0.1
	}
	if c.MutationDepth == 0 {
		c.MutationDepth = 6
	}
	if c.ADFArity == 0 {
		c.ADFArity = 1
	}
	if c.ADLLimit == 0 {
		c.ADLLimit = 25
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

func (c Config) validate() error {
	if c.Iterations <= 0 {
		return errors.New("iterations must be positive")
	}
	if c.Migrations < 0 {
		return errors.New("migrations must be >= 0")
	}
	if c.Islands < 1 {
		return errors.New("island count must be positive")
	}
	if c.Population < 1 {
		return errors.New("population size must be positive")
	}
	if c.TournamentSize < 1 {
		return errors.New("tournament size must be positive")
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return fmt.Errorf("mutation probability must be in [0, 1], got %v", c.MutationProb)
	}
	if c.MutationDepth < 0 {
		return errors.New("mutation depth must be >= 0")
	}
	if c.MaxDepth < 0 {
		return errors.New("max depth must be >= 0")
	}
	if len(c.Terminals) == 0 {
		return errors.New("terminals are required")
	}
	if len(c.Functions) == 0 {
		return errors.New("functions are required")
	}
	for _, spec := range c.Functions {
		if spec.Op == "" {
			return errors.New("function op must not be empty")
		}
		if spec.Arity < 1 {
			return fmt.Errorf("function %s arity must be positive, got %d", spec.Op, spec.Arity)
		}
	}
	if c.ADFArity < 0 || c.ADFCount < 0 || c.ADLCount < 0 || c.ADLLimit < 0 {
		return errors.New("branch options must be >= 0")
	}
	if c.Fitness == nil {
		return errors.New("fitness evaluator is required")
	}
	if c.Report == nil {
		return errors.New("report callback is required")
	}
	return nil
}

// Run validates cfg, builds the initial islands, and drives the full
// migration loop. The run stops when the best score reaches 0 or the
// migration budget is exhausted.
func Run(ctx context.Context, cfg Config) (Result, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	spec := genotype.ModuleSpec{
		Sets: genotype.Sets{
			Terminals: cfg.Terminals,
			Numbers:   cfg.Numbers,
			Functions: cfg.Functions,
		},
		ADFArity: cfg.ADFArity,
		ADFCount: cfg.ADFCount,
		ADLCount: cfg.ADLCount,
		ADLLimit: cfg.ADLLimit,
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	islands, err := platform.NewIslands(rng, cfg.Islands, cfg.Population, cfg.MutationDepth, spec)
	if err != nil {
		return Result{}, err
	}

	result, err := platform.RunRounds(ctx, platform.RunConfig{
		Rounds:              cfg.Migrations,
		GenerationsPerRound: cfg.Iterations,
		Islands:             islands,
		TournamentSize:      cfg.TournamentSize,
		MutationProb:        cfg.MutationProb,
		MutationDepth:       cfg.MutationDepth,
		MaxDepth:            cfg.MaxDepth,
		Module:              spec,
		Evaluator:           cfg.Fitness,
		Report:              cfg.Report,
		Seed:                cfg.Seed,
		Workers:             cfg.Workers,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Islands:     result.Islands,
		Best:        result.Best,
		BestScore:   result.BestScore,
		Rounds:      result.Rounds,
		Evaluations: result.Evaluations,
	}, nil
}
