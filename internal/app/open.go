package app

import (
	"context"
	"fmt"

	"recipe-planner/internal/config"
	"recipe-planner/internal/llm"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/storage"
)

// Open connects the store and the optional LLM client selected by cfg,
// builds the App and runs Init. The returned function releases both.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, func(), error) {
	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	textGen, err := llm.NewFromConfig(ctx, cfg, log)
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}

	cleanup := func() {
		if textGen != nil {
			if err := llm.Close(textGen); err != nil {
				log.Warn("failed to close llm client", "error", err)
			}
		}
		if err := closeStore(); err != nil {
			log.Warn("failed to close store", "error", err)
		}
	}

	a := New(store, textGen, cfg, log)
	if err := a.Init(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	log.Info("application ready", "store", cfg.StoreDriver, "llm", textGen != nil)
	return a, cleanup, nil
}
