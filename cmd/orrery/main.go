package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orrery-db/orrery/internal/cli/config"
	"github.com/orrery-db/orrery/internal/store"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	noColor bool
	logger  = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orrery",
		Short: "Orrery object-graph store tooling",
		Long: `Orrery persists schema-driven object graphs to keyed record stores.
This tool inspects saved stores: the ownership tree, record counts, and
store metadata.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err = newLogger(cfg.Log.Level)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(statsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the store selected by config, or by the path argument if
// one was given on the command line.
func openStore(ctx context.Context, args []string) (store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Store.Driver = "file"
		cfg.Store.Path = args[0]
	}

	switch cfg.Store.Driver {
	case "file":
		return store.NewFileStore(cfg.Store.Path)
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.Store.Path)
	case "postgres":
		return store.OpenPG(ctx, cfg.Store.URL)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// newLogger builds the CLI logger from the configured level.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("unknown log level: %s", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
