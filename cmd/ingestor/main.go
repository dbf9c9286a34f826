// Command ingestor warms the hotel directory from a list of hotel ids
// (args or INGEST_HOTEL_IDS, comma-separated) and sweeps expired search
// cache entries when done.
package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"wayfare/internal/adapters/inventory"
	"wayfare/internal/adapters/observability"
	"wayfare/internal/adapters/rediscache"
	"wayfare/internal/app"
	"wayfare/internal/shared"
	mysqlrepo "wayfare/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	ids := hotelIDs()
	if len(ids) == 0 {
		log.Fatal().Msg("no hotel ids given (args or INGEST_HOTEL_IDS)")
	}

	log.Info().
		Str("base", cfg.InventoryBase).
		Int("workers", cfg.Workers).
		Int("ids", len(ids)).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	dir := mysqlrepo.New(db)
	cache := rediscache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	client, err := inventory.New(cfg.InventoryBase, cfg.InventoryKey, cfg.InventoryRPS, cfg.InventoryTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize inventory client")
	}
	search := app.NewSearchService(client, dir, cache, cfg.CacheTTL, cfg.SearchLimit)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range ids {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := search.GetHotelByID(ctx, hotelID); err != nil {
				log.Warn().Str("id", hotelID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("id", hotelID).Msg("ingest ok")
		}(id)
	}

	wg.Wait()

	if n, err := cache.PurgeExpired(ctx); err != nil {
		log.Warn().Err(err).Msg("cache purge failed")
	} else {
		log.Info().Int("purged", n).Msg("expired cache entries purged")
	}
	log.Info().Msg("ingestion completed")
}

func hotelIDs() []string {
	raw := strings.Join(os.Args[1:], ",")
	if env := os.Getenv("INGEST_HOTEL_IDS"); env != "" {
		raw = raw + "," + env
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
