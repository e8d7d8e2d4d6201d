package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/wolfman30/healthcare-portal/internal/app/bootstrap"
	"github.com/wolfman30/healthcare-portal/internal/config"
	"github.com/wolfman30/healthcare-portal/internal/directory"
	appmigrations "github.com/wolfman30/healthcare-portal/migrations"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// Usage:
//
//	migrate                        apply all pending migrations
//	migrate down                   roll back one migration
//	migrate force <version>        mark the schema as <version>
//	migrate seed-directory <file>  load hospitals and doctors JSON into Redis
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if len(os.Args) >= 2 && os.Args[1] == "seed-directory" {
		if len(os.Args) < 3 {
			log.Fatal("usage: migrate seed-directory <file>")
		}
		if err := seedDirectory(context.Background(), cfg, os.Args[2]); err != nil {
			log.Fatalf("seed directory: %v", err)
		}
		fmt.Println("directory seeded")
		return
	}

	databaseURL := strings.TrimSpace(cfg.DatabaseURL)
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("db driver: %v", err)
	}

	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		log.Fatalf("source driver: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	if len(os.Args) >= 3 && os.Args[1] == "force" {
		version, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid version: %v", err)
		}
		if err := m.Force(version); err != nil {
			log.Fatalf("force version: %v", err)
		}
		fmt.Printf("forced version to %d\n", version)
		return
	}

	if len(os.Args) >= 2 && os.Args[1] == "down" {
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate down: %v", err)
		}
		fmt.Println("rolled back one migration")
		return
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migrate up: %v", err)
	}

	fmt.Println("migrations complete")
}

func seedDirectory(ctx context.Context, cfg *config.Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var seed directory.Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	client := bootstrap.BuildRedisClient(ctx, cfg, logging.New(cfg.LogLevel), true)
	if client == nil {
		return fmt.Errorf("redis unavailable at %q", cfg.RedisAddr)
	}
	defer func() { _ = client.Close() }()
	return directory.NewStore(client).Seed(ctx, &seed)
}
