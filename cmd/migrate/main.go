package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate status

import (
	"context"
	"os"

	"talentflow-api/internal/shared/config"
	"talentflow-api/internal/shared/storage/db"
	"talentflow-api/internal/shared/telemetry"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg := config.Load()
	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL, db.ProfileMigrate.Defaults().Override(cfg.DBPool()))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		os.Exit(1)
	}
}
