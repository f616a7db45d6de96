package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cotscan/cotscan/internal/config"
	"github.com/cotscan/cotscan/internal/store"
)

// loadConfig resolves the --config flag into a validated configuration.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openStore builds the configured store. Postgres gets its schema ensured;
// the memory driver only lives for the current process.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := store.OpenPostgres(ctx, cfg.Storage.DSN, cfg.QueryTimeout())
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
