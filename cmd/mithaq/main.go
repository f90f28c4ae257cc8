// mithaq generates, amends, and finalizes Arabic legal documents through a
// quality-controlled LLM pipeline, keeping every result in a versioned local
// history.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mithaq/internal/config"
	"mithaq/internal/gateway"
	"mithaq/internal/history"
	"mithaq/internal/kvstore"
	"mithaq/internal/logging"
	"mithaq/internal/orchestrator"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mithaq",
	Short: "mithaq - Arabic legal document generation pipeline",
	Long: `mithaq drives an LLM to synthesize, amend, and finalize Arabic legal
documents (contracts, letters, agreements), with a judge model auditing every
result before it is accepted.

Approved documents are sanitized into canonical Markdown, parsed for party
and date identity, and kept in a versioned local history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// app bundles the wired pipeline for one command invocation.
type app struct {
	cfg  *config.Config
	kv   *kvstore.SQLiteStore
	hist *history.Store
	orch *orchestrator.Orchestrator
}

// newApp loads config, initializes file logging, and wires the pipeline. The
// gateway client is created here once and reused for the process lifetime.
func newApp() (*app, error) {
	if workspace == "" {
		workspace = "."
	}
	path := configPath
	if path == "" {
		path = filepath.Join(workspace, ".mithaq", "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logging.Initialize(workspace, logging.Settings{
		DebugMode: cfg.Logging.DebugMode || verbose,
		Level:     cfg.Logging.Level,
	}); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	dbPath := cfg.Storage.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(workspace, dbPath)
	}
	kv, err := kvstore.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	hist, err := history.NewStore(kv)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("loading history: %w", err)
	}

	client := gateway.NewClient(gateway.Config{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		DefaultModel:    cfg.LLM.Model,
		Timeout:         cfg.Timeout(),
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	})

	return &app{
		cfg:  cfg,
		kv:   kv,
		hist: hist,
		orch: orchestrator.New(client, hist, kv, cfg.SessionTTL()),
	}, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		logger.Warn("closing store", zap.Error(err))
	}
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default <workspace>/.mithaq/config.yaml)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(amendCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(feedbackCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
