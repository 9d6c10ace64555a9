package cmd

import (
	"context"

	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
)

// migrateCmd applies pending database migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := logger.WithCtx(context.Background(), log)

		cfg, err := loadConfig()
		if err != nil {
			log.Fatalw("invalid configuration", zap.Error(err))
		}

		store, err := sqlite.New(ctx, cfg.Storage.FilePath)
		if err != nil {
			log.Fatalw("failed to open database", zap.Error(err))
		}
		defer store.Close()

		if err := store.RunMigrations(ctx); err != nil {
			log.Fatalw("failed to migrate database", zap.Error(err))
		}

		if versioned, ok := store.(*sqlite.SQLite); ok {
			version, dirty, err := versioned.GetMigrationVersion()
			if err != nil {
				log.Fatalw("failed to read migration version", zap.Error(err))
			}
			log.Infow("database migrated", "path", cfg.Storage.FilePath, "version", version, "dirty", dirty)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
