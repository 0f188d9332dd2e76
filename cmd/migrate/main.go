// Command migrate applies the database schema migrations and exits.
// Deployments that cannot run migrations at server startup (multiple
// replicas racing, restricted runtime credentials) run this first.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"chat-integration/internal/config"
	"chat-integration/internal/infra/db"
	"chat-integration/internal/observability/logging"
	"chat-integration/migrations"

	sqliteRepo "chat-integration/internal/infra/adapter/persistence/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, warnings := config.Load()
	for _, w := range warnings {
		logger.Warn(w)
	}

	if cfg.DatabaseDriver == "sqlite" {
		// The sqlite adapter migrates inside Open.
		database, err := sqliteRepo.Open(cfg.DatabaseDSN)
		if err != nil {
			logger.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer database.Close()
		logger.Info("migrations applied", slog.String("driver", "sqlite"))
		return
	}

	database, err := db.Open(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close()

	if err := migrations.Run(database, "postgres"); err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied", slog.String("driver", "postgres"))
}
