package main

import (
	"context"
	"flag"
	"log"

	"bookbrowser/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dir := migrationsDir()

	// create only writes a file; it needs no database
	if *command == "create" {
		if *name == "" {
			logger.Fatal("Name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			logger.Fatal("Failed to create migration", zap.Error(err))
		}
		logger.Info("Migration created", zap.String("name", *name), zap.String("dir", dir))
		return
	}

	dsn := databaseDSN()
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("dsn", config.RedactDSN(dsn)), zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("Failed to set dialect", zap.Error(err))
	}

	switch *command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			logger.Fatal("Failed to rollback migrations", zap.Error(err))
		}
		logger.Info("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			logger.Fatal("Failed to check migration status", zap.Error(err))
		}
	default:
		logger.Fatal("Unknown command. Use: up, down, status, create", zap.String("command", *command))
	}
}
