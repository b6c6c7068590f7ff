package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/config"
	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/pkg/log"
	"github.com/careerkit/career-assistant/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := migrations.MigrateStore(db, cfg.Database.Type, cfg.Service.MigrationFolder); err != nil {
			zap.S().Fatalf("running migration: %v", err)
		}
		zap.S().Info("db migrated")
		return nil
	},
}
