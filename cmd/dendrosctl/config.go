package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"dendros/pkg/dendros"
)

// runConfigFile is the YAML shape accepted by `run --config` and
// `bench --config`. Zero values defer to problem defaults.
type runConfigFile struct {
	Problem        string  `yaml:"problem"`
	DataPath       string  `yaml:"data_path"`
	Population     int     `yaml:"population" validate:"gte=0"`
	Iterations     int     `yaml:"iterations" validate:"gte=0"`
	Migrations     int     `yaml:"migrations" validate:"gte=0"`
	Islands        int     `yaml:"islands" validate:"gte=0"`
	TournamentSize int     `yaml:"tournament_size" validate:"gte=0"`
	MutationProb   float64 `yaml:"mutation_probability" validate:"gte=0,lte=1"`
	MutationDepth  int     `yaml:"mutation_depth" validate:"gte=0"`
	MaxDepth       int     `yaml:"max_depth" validate:"gte=0"`
	ADFCount       int     `yaml:"adf_count" validate:"gte=0"`
	ADLCount       int     `yaml:"adl_count" validate:"gte=0"`
	Seed           int64   `yaml:"seed"`
	Workers        int     `yaml:"workers" validate:"gte=0"`
	Polish         bool    `yaml:"polish"`
}

// ValidationError is one field failure from run config validation.
type ValidationError struct {
	Field   string
	Tag     string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Tag {
	case "gte":
		return fmt.Sprintf("%s must be >= %v", e.Field, e.Value)
	case "lte":
		return fmt.Sprintf("%s must be <= %v", e.Field, e.Value)
	default:
		return fmt.Sprintf("%s failed validation", e.Field)
	}
}

// ValidationErrors aggregates every failed field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

func loadRunRequest(path string) (dendros.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dendros.RunRequest{}, err
	}

	var cfg runConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return dendros.RunRequest{}, fmt.Errorf("parse run config %s: %w", path, err)
	}
	if err := validateRunConfig(cfg); err != nil {
		return dendros.RunRequest{}, err
	}

	return dendros.RunRequest{
		Problem:        cfg.Problem,
		DataPath:       cfg.DataPath,
		Population:     cfg.Population,
		Iterations:     cfg.Iterations,
		Migrations:     cfg.Migrations,
		Islands:        cfg.Islands,
		TournamentSize: cfg.TournamentSize,
		MutationProb:   cfg.MutationProb,
		MutationDepth:  cfg.MutationDepth,
		MaxDepth:       cfg.MaxDepth,
		ADFCount:       cfg.ADFCount,
		ADLCount:       cfg.ADLCount,
		Seed:           cfg.Seed,
		Workers:        cfg.Workers,
		Polish:         cfg.Polish,
	}, nil
}

func validateRunConfig(cfg runConfigFile) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		out = append(out, ValidationError{
			Field: strings.ToLower(fieldError.Field()),
			Tag:   fieldError.Tag(),
			Value: fieldError.Param(),
		})
	}
	return out
}
