package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/artosku/duitku-backend/pkg/logging"
)

func main() {
	logging.Setup()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		slog.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		slog.Error("error opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("error pinging database", "error", err)
		os.Exit(1)
	}

	sqlBytes, err := os.ReadFile("migrations/migrations.sql")
	if err != nil {
		slog.Error("error reading migrations file", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("applying migrations")
	if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
		slog.Error("error applying migrations", "error", err)
		os.Exit(1)
	}

	slog.Info("migrations applied")
}
