package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"talentflow-api/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

func withGoose() error {
	goose.SetBaseFS(migrationFiles)
	return goose.SetDialect("postgres")
}

// RunMigrations applies every pending embedded migration. A nil database is a no-op.
func RunMigrations(ctx context.Context, conn *sql.DB) error {
	return Migrate(ctx, conn, "up")
}

// Migrate runs one goose command (up, down, status, version) against the
// embedded migrations.
func Migrate(ctx context.Context, conn *sql.DB, command string) error {
	if conn == nil {
		return nil
	}
	if err := withGoose(); err != nil {
		return err
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, conn, migrationsDir)
	case "down":
		err = goose.DownContext(ctx, conn, migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, conn, migrationsDir)
	case "version":
		err = goose.VersionContext(ctx, conn, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	telemetry.Info("db.migrate", map[string]any{"command": command, "version": version})
	return nil
}
