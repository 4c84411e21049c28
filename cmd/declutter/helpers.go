package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/quietfile/declutter/internal/config"
	"github.com/quietfile/declutter/internal/service"
	"github.com/quietfile/declutter/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/declutter/declutter.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// trashDir returns where "deleted" files are parked.
func trashDir() string {
	dir := viper.GetString("organizer.trash_dir")
	if dir == "" {
		dir = "$HOME/.local/share/declutter/trash"
	}
	return config.ExpandPath(dir)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
