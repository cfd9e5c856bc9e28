package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scenehub/database"
	"scenehub/internal/cache"
	"scenehub/internal/config"
	"scenehub/internal/ingestion/anilist"
	"scenehub/internal/logger"
	"scenehub/internal/microservices/http-api/repository"
)

func main() {
	count := flag.Int("count", 0, "anime to fetch (defaults to ANILIST_SYNC_INITIAL_COUNT)")
	seed := flag.Int64("seed", 0, "random seed for generated titles and like counts; 0 is random")
	flag.Parse()

	cfg, err := config.LoadConfig(false)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	lg := logger.Setup(cfg.LogLevel, cfg.LogFormat, "anilist-sync")
	lg.Info("=== AniList Sync Service ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, lg)
	if err != nil {
		lg.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	client := anilist.NewClient(anilist.ClientConfig{
		APIURL:        cfg.AniListAPIURL,
		RatePerSecond: cfg.AniListRatePerSecond,
		Logger:        lg,
	})

	n := cfg.AniListSyncCount
	if *count > 0 {
		n = *count
	}
	seeder := anilist.NewSeeder(
		client,
		repository.NewTagRepository(db),
		repository.NewAnimeRepository(db),
		repository.NewSceneRepository(db),
		anilist.SeedConfig{Count: n, Workers: cfg.AniListSyncWorkers, Seed: *seed},
		lg,
	)

	report, err := seeder.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			lg.Warn("sync cancelled", "report", report)
			return
		}
		lg.Error("sync failed", "error", err, "report", report)
		os.Exit(1)
	}

	// new scenes change the trending candidates
	if report.Created > 0 && cfg.RedisURL != "" {
		if rc, err := cache.Connect(ctx, cfg.RedisURL, cfg.RedisPassword, cache.Options{Logger: lg}); err == nil {
			if err := rc.InvalidateTrending(ctx); err != nil {
				lg.Warn("trending invalidation failed", "error", err)
			}
			rc.Close()
		}
	}

	lg.Info("sync complete",
		"fetched", report.Fetched,
		"usable", report.Usable,
		"skipped", report.Skipped,
		"created", report.Created,
		"failed", report.Failed,
	)
}
