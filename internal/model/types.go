package model

import "dendros/pkg/gene"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the persisted outcome of one evolution run: the config
// snapshot, the best individual, and the round-by-round trajectory.
type RunRecord struct {
	VersionedRecord
	ID           string          `json:"id"`
	Problem      string          `json:"problem"`
	Seed         int64           `json:"seed"`
	Population   int             `json:"population"`
	Iterations   int             `json:"iterations"`
	Migrations   int             `json:"migrations"`
	Islands      int             `json:"islands"`
	MaxDepth     int             `json:"max_depth"`
	Best         gene.Individual `json:"best"`
	BestRendered string          `json:"best_rendered"`
	BestScore    float64         `json:"best_score"`
	Rounds       int             `json:"rounds"`
	Evaluations  int             `json:"evaluations"`
	Polished     bool            `json:"polished"`
	RoundScores  []float64       `json:"round_scores,omitempty"`
	CreatedAtUTC string          `json:"created_at_utc"`
	ElapsedMS    int64           `json:"elapsed_ms"`
}

// RoundStat is one entry of a run's per-round best-score series.
type RoundStat struct {
	Round int     `json:"round"`
	Score float64 `json:"score"`
}
