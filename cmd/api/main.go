package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "wayfare/internal/adapters/http_server"
	"wayfare/internal/adapters/inventory"
	"wayfare/internal/adapters/itinerary"
	"wayfare/internal/adapters/observability"
	"wayfare/internal/adapters/rediscache"
	"wayfare/internal/app"
	"wayfare/internal/shared"
	mysqlrepo "wayfare/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	dir := mysqlrepo.New(db)
	cache := rediscache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	client, err := inventory.New(cfg.InventoryBase, cfg.InventoryKey, cfg.InventoryRPS, cfg.InventoryTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize inventory client")
	}
	search := app.NewSearchService(client, dir, cache, cfg.CacheTTL, cfg.SearchLimit)

	var trips *app.TripService
	if cfg.OpenAIKey != "" {
		gen, err := itinerary.New(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize itinerary client")
		}
		trips = app.NewTripService(gen, search)
	} else {
		log.Warn().Msg("OPENAI_API_KEY is empty; itinerary endpoint disabled")
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Search: search, Trips: trips, Cache: cache})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
