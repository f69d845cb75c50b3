package cmd

import (
	"fmt"

	"site-sync/core/config"
	"site-sync/core/database"
	"site-sync/core/logger"
	"site-sync/feature/content/store"

	"go.uber.org/zap"
)

// openStore loads the configuration, builds the logger and opens the
// migrated local store.
func openStore() (*config.Config, *zap.Logger, *store.Store, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	st := store.New(db, cfg.Sync.TaxonomyList())
	if err := st.Migrate(); err != nil {
		return nil, nil, nil, err
	}
	return cfg, l, st, nil
}
