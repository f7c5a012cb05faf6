package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/motle/server/internal/config"
	"github.com/motle/server/internal/httpserver"
	"github.com/motle/server/internal/stats"
	"github.com/motle/server/internal/store"
	"github.com/motle/server/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	langs, lists, total := words.Counts()
	log.Info().Int("languages", langs).Int("lists", lists).Int("words", total).Msg("word catalog loaded")

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	agg := stats.NewAggregator(stats.NewSQLiteStore(db))
	srv := httpserver.New(cfg, store.NewMemoryStore(), agg, db)

	log.Info().Str("port", cfg.Port).Msg("starting motle server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
