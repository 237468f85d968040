package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dendros/pkg/dendros"
)

var (
	logLevel     string
	storeKind    string
	dbPath       string
	artifactsDir string
	exportsDir   string
)

var rootCmd = &cobra.Command{
	Use:   "dendrosctl",
	Short: "Tree-based genetic programming over parallel islands",
	Long: `dendrosctl evolves expression trees against named regression problems
using tournament selection, subtree crossover, and ring migration
between island populations.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "store backend: memory|sqlite")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path")
	rootCmd.PersistentFlags().StringVar(&artifactsDir, "artifacts-dir", "", "run artifact directory")
	rootCmd.PersistentFlags().StringVar(&exportsDir, "exports-dir", "", "export output directory")
}

func newClient(cmd *cobra.Command) (*dendros.Client, error) {
	client, err := dendros.New(dendros.Options{
		StoreKind:    storeKind,
		DBPath:       dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(cmd.Context()); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
