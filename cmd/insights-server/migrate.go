// cmd/insights-server/migrate.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intent-insights/internal/common/logger"
	"intent-insights/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the insights table for the postgres store",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	docs, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer docs.Close()

	pg, ok := docs.(*store.PostgresStore)
	if !ok {
		zapLog.Info("store driver needs no migration", zap.String("driver", docs.Name()))
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	if err := pg.Migrate(ctx, cfg.Store.Collection); err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.Store.Collection, err)
	}
	zapLog.Info("migration complete", zap.String("collection", cfg.Store.Collection))
	return nil
}
