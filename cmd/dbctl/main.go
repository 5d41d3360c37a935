// Command dbctl applies migrations and seeds reference data.
//
//	dbctl up
//	dbctl down
//	dbctl seed -file seed.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/repository"
	"github.com/content-publishing-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dbctl <up|down|seed> [flags]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}).
		With().Str("component", "dbctl").Logger()

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		err = db.RunMigrations(cfg.Database.MigrationsPath)
	case "down":
		err = db.MigrateDown(cfg.Database.MigrationsPath)
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ExitOnError)
		file := fs.String("file", "seed.yaml", "YAML file with users and categories")
		fs.Parse(os.Args[2:])
		err = runSeed(context.Background(), repository.New(db), *file)
		if err == nil {
			log.Info().Str("file", *file).Msg("Seed applied")
		}
	default:
		log.Fatal().Str("command", cmd).Msg("Unknown command")
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Command failed")
	}
}

func runSeed(ctx context.Context, repos *repository.Repositories, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seed, err := loadSeed(f)
	if err != nil {
		return err
	}
	return seed.apply(ctx, repos)
}
