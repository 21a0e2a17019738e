package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/healthbill/healthbill/internal/config"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/samber/lo"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func main() {
	// Parse command line flags
	dir := flag.String("dir", "migrations/postgres", "Directory holding the .sql migrations")
	dryRun := flag.Bool("dry-run", false, "Print pending migrations without executing them")
	flag.Parse()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		logger.Fatalw("Failed to list migrations", "error", err)
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		logger.Fatalw("Failed to create migrations table", "error", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, "SELECT name FROM schema_migrations"); err != nil {
		logger.Fatalw("Failed to read applied migrations", "error", err)
	}

	pending := lo.Filter(files, func(f string, _ int) bool {
		return !lo.Contains(applied, filepath.Base(f))
	})
	if len(pending) == 0 {
		logger.Info("Database is up to date")
		return
	}

	for _, file := range pending {
		name := filepath.Base(file)
		body, err := os.ReadFile(file)
		if err != nil {
			logger.Fatalw("Failed to read migration", "migration", name, "error", err)
		}

		if *dryRun {
			fmt.Printf("-- %s\n%s\n", name, body)
			continue
		}

		// each file is applied with its bookkeeping row in one transaction
		err = db.WithTx(ctx, func(txCtx context.Context) error {
			q := db.GetQuerier(txCtx)
			if _, err := q.ExecContext(txCtx, string(body)); err != nil {
				return err
			}
			_, err := q.ExecContext(txCtx, "INSERT INTO schema_migrations (name) VALUES ($1)", name)
			return err
		})
		if err != nil {
			logger.Fatalw("Failed to apply migration", "migration", name, "error", err)
		}
		logger.Infow("Applied migration", "migration", name)
	}

	fmt.Println("Migration process completed")
}
