// Command seedclubs loads clubs from a YAML file into an empty clubs table.
//
//	seedclubs -file clubs.yaml [-dry-run]
//
// Database settings come from the same DB_* environment as the server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusconnect/campus-backend/config"
	"github.com/campusconnect/campus-backend/db"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/store/postgres"
)

func main() {
	file := flag.String("file", "clubs.yaml", "YAML file with the clubs to seed")
	dryRun := flag.Bool("dry-run", false, "Validate the file and print what would be seeded")
	flag.Parse()

	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open seed file: %v", err)
	}
	clubs, err := LoadClubs(f)
	f.Close()
	if err != nil {
		log.Fatalf("Invalid seed file %s: %v", *file, err)
	}
	log.Infow("Loaded seed file", "file", *file, "clubs", len(clubs))

	if *dryRun {
		for _, c := range clubs {
			log.Infow("Would seed club", "name", c.Name, "category", c.Category)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.URL()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}
	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	n, err := Seed(ctx, postgres.NewPgClubStore(pool), clubs, logger.Named("SeedClubs"))
	if err != nil {
		log.Fatalf("Seeding failed after %d clubs: %v", n, err)
	}
	if n == 0 {
		log.Info("Clubs already initialized, nothing seeded")
		return
	}
	log.Infow("Clubs seeded", "count", n)
}
