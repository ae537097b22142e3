package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/docchat/internal/assistant"
	"github.com/abhisek/docchat/internal/config"
	"github.com/abhisek/docchat/internal/llm"
	"github.com/abhisek/docchat/internal/logger"
	"github.com/abhisek/docchat/internal/store"
)

// deps bundles what every command needs. Close releases the store and
// flushes the logger.
type deps struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
}

// loadDeps reads configuration, builds the logger and opens the store.
// tui disables the console log sink since the terminal belongs to the UI.
func loadDeps(cmd *cobra.Command, tui bool) (*deps, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Log
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && !tui {
		logCfg.Console = true
		logCfg.Level = "debug"
	}
	if tui {
		logCfg.Console = false
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	for _, key := range cfg.Unknown {
		log.Warn("unknown config key", zap.String("key", key), zap.String("file", cfg.Path))
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath))

	return &deps{cfg: cfg, log: log, store: st}, nil
}

// gateway builds the configured provider chain and the assistant on top
// of it.
func (d *deps) gateway(cmd *cobra.Command) (*assistant.Assistant, error) {
	provider, err := llm.NewProvider(cmd.Context(), d.cfg.LLM, d.store.EventRepo(), d.log)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	d.log.Info("llm provider ready",
		zap.String("provider", d.cfg.LLM.Provider),
		zap.String("model", provider.ModelID()))
	return assistant.New(provider, assistant.DefaultConfig(), d.log), nil
}

func (d *deps) Close() {
	_ = d.store.Close()
	_ = d.log.Sync()
}
