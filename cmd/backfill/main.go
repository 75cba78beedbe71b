// cmd/backfill/main.go — writes an initial price-history entry for every
// product that has none. Run once when enabling price tracking over an
// existing catalog; safe to re-run.
package main

import (
	"context"
	"os"
	"time"

	"korecatalog/internal/config"
	"korecatalog/internal/infra"
	"korecatalog/internal/repository"
	"korecatalog/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	historyRepo := repository.NewPriceHistoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	historySvc := service.NewPriceHistoryService(historyRepo, productRepo, nil, 0)

	count, err := historySvc.Backfill(context.Background())
	if err != nil {
		log.Fatal().Err(err).Int("written", count).Msg("backfill aborted")
	}
	log.Info().Int("written", count).Msg("backfill complete")
}
