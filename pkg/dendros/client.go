package dendros

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"dendros/internal/model"
	"dendros/internal/problem"
	"dendros/internal/stats"
	"dendros/internal/storage"
	"dendros/internal/tuning"
	"dendros/pkg/gene"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultExportsDir   = "exports"
	defaultDBPath       = "dendros.db"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
}

// Client wraps the engine with named problems, run persistence, and
// artifact management.
type Client struct {
	store storage.Store

	artifactsDir string
	exportsDir   string
}

// RunRequest names a problem and optionally overrides its default
// engine settings. Zero-valued fields keep the problem defaults.
type RunRequest struct {
	Problem        string
	DataPath       string // csv problem: path to an (x, y) dataset
	Population     int
	Iterations     int
	Migrations     int
	Islands        int
	TournamentSize int
	MutationProb   float64
	MutationDepth  int
	MaxDepth       int
	ADFCount       int
	ADLCount       int
	Seed           int64
	Workers        int
	Polish         bool
	PolishAttempts int
	PolishSteps    int
	PolishStepSize float64
}

type RunSummary struct {
	RunID        string
	Problem      string
	ArtifactsDir string
	BestRendered string
	BestScore    float64
	Rounds       int
	Evaluations  int
	RoundScores  []float64
	Polished     bool
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Problem      string
	Seed         int64
	Population   int
	Islands      int
	Rounds       int
	BestScore    float64
	BestRendered string
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Run resolves the requested problem, evolves it, persists the run
// record, and writes the artifact directory.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	prob, err := c.resolveProblem(req)
	if err != nil {
		return RunSummary{}, err
	}
	cfg := configFor(prob, req)
	if cfg.Seed == 0 {
		// Resolve the seed here so the persisted record can reproduce the run.
		cfg.Seed = time.Now().UnixNano()
	}

	var roundScores []float64
	cfg.Report = func(best gene.Individual, score float64) {
		roundScores = append(roundScores, score)
	}
	cfg.Fitness = prob.Evaluate

	started := time.Now().UTC()
	result, err := Run(ctx, cfg)
	if err != nil {
		return RunSummary{}, err
	}
	best, bestScore := result.Best, result.BestScore
	if result.Rounds > 0 {
		roundScores = append(roundScores, bestScore)
	}

	polished := false
	if req.Polish && result.Rounds > 0 && bestScore > 0 {
		polisher := &tuning.Polisher{
			Rand:              rand.New(rand.NewSource(cfg.Seed + 2000)),
			Attempts:          req.PolishAttempts,
			Steps:             polishSteps(req),
			StepSize:          polishStepSize(req),
			PerturbationRange: 1.0,
			AnnealingFactor:   0.9,
		}
		candidate, candidateScore, err := polisher.Polish(ctx, best, prob.Evaluate)
		if err != nil {
			return RunSummary{}, err
		}
		polished = candidateScore < bestScore
		best, bestScore = candidate, candidateScore
	}

	record := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:           uuid.New().String(),
		Problem:      prob.Name(),
		Seed:         cfg.Seed,
		Population:   cfg.Population,
		Iterations:   cfg.Iterations,
		Migrations:   cfg.Migrations,
		Islands:      cfg.Islands,
		MaxDepth:     cfg.MaxDepth,
		Best:         best,
		BestRendered: best.String(),
		BestScore:    bestScore,
		Rounds:       result.Rounds,
		Evaluations:  result.Evaluations,
		Polished:     polished,
		RoundScores:  roundScores,
		CreatedAtUTC: started.Format(time.RFC3339Nano),
		ElapsedMS:    time.Since(started).Milliseconds(),
	}
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, err
	}

	rounds := make([]model.RoundStat, len(roundScores))
	for i, score := range roundScores {
		rounds[i] = model.RoundStat{Round: i + 1, Score: score}
	}
	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{Record: record, Rounds: rounds})
	if err != nil {
		return RunSummary{}, err
	}
	if err := stats.WriteRoundSeries(runDir, rounds); err != nil {
		return RunSummary{}, err
	}
	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:        record.ID,
		Problem:      record.Problem,
		Population:   record.Population,
		Islands:      record.Islands,
		Seed:         record.Seed,
		BestScore:    record.BestScore,
		Rounds:       record.Rounds,
		CreatedAtUTC: record.CreatedAtUTC,
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:        record.ID,
		Problem:      record.Problem,
		ArtifactsDir: filepath.Clean(runDir),
		BestRendered: record.BestRendered,
		BestScore:    record.BestScore,
		Rounds:       record.Rounds,
		Evaluations:  record.Evaluations,
		RoundScores:  append([]float64(nil), roundScores...),
		Polished:     polished,
	}, nil
}

// Runs lists persisted runs, newest first.
func (c *Client) Runs(ctx context.Context, limit int) ([]RunItem, error) {
	if limit <= 0 {
		limit = 20
	}
	records, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) > limit {
		records = records[:limit]
	}

	items := make([]RunItem, 0, len(records))
	for _, record := range records {
		items = append(items, RunItem{
			RunID:        record.ID,
			CreatedAtUTC: record.CreatedAtUTC,
			Problem:      record.Problem,
			Seed:         record.Seed,
			Population:   record.Population,
			Islands:      record.Islands,
			Rounds:       record.Rounds,
			BestScore:    record.BestScore,
			BestRendered: record.BestRendered,
		})
	}
	return items, nil
}

// Export copies a run's artifact directory into the exports directory.
func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		entries, err := stats.ListRunIndex(c.artifactsDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveProblem(req RunRequest) (problem.Problem, error) {
	if req.DataPath != "" {
		return problem.NewCSV(req.DataPath)
	}
	name := req.Problem
	if name == "" {
		name = "quadratic"
	}
	return problem.ByName(name)
}

func configFor(prob problem.Problem, req RunRequest) Config {
	defaults := prob.Defaults()
	sets := prob.Sets()
	cfg := Config{
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
		Seed:           req.Seed,
		Workers:        req.Workers,
		ADFCount:       req.ADFCount,
		ADLCount:       req.ADLCount,
	}
	if req.Population > 0 {
		cfg.Population = req.Population
	}
	if req.Iterations > 0 {
		cfg.Iterations = req.Iterations
	}
	if req.Migrations > 0 {
		cfg.Migrations = req.Migrations
	}
	if req.Islands > 0 {
		cfg.Islands = req.Islands
	}
	if req.TournamentSize > 0 {
		cfg.TournamentSize = req.TournamentSize
	}
	if req.MutationProb > 0 {
		cfg.MutationProb = req.MutationProb
	}
	if req.MutationDepth > 0 {
		cfg.MutationDepth = req.MutationDepth
	}
	if req.MaxDepth > 0 {
		cfg.MaxDepth = req.MaxDepth
	}
	return cfg
}

func polishSteps(req RunRequest) int {
	if req.PolishSteps > 0 {
		return req.PolishSteps
	}
	return 25
}

func polishStepSize(req RunRequest) float64 {
	if req.PolishStepSize > 0 {
		return req.PolishStepSize
	}
	return 0.35
}
