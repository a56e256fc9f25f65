package dbmigrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fdg312/fitplan/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Run applies a goose command (up|status|down). An empty migrationsDir
// uses the migrations embedded in the binary.
func Run(ctx context.Context, command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if migrationsDir == "" {
		goose.SetBaseFS(migrations.FS)
		defer goose.SetBaseFS(nil)
		migrationsDir = "."
	}

	if err := goose.RunContext(ctx, command, db, migrationsDir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}
