package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"wizard-server/internal/config"
	"wizard-server/internal/game"
	"wizard-server/internal/logging"
	"wizard-server/internal/store"
	"wizard-server/internal/ws"
)

func main() {
	app, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(app.Log)
	cfg := app.Server

	kv, cleanup, err := openKV(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer cleanup()

	engine := game.NewEngine(store.New(kv))
	r := newRouter(engine, ws.NewServer(engine))
	logRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

// openKV selects the backend from config: postgres when a DSN is set,
// otherwise a process-local in-memory store.
func openKV(cfg config.ServerConfig) (store.KV, func(), error) {
	if cfg.PostgresDSN == "" {
		log.Info().Msg("using in-memory store")
		return store.NewMemory(), func() {}, nil
	}
	ctx := context.Background()
	pg, err := store.NewPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	log.Info().Msg("using postgres store")
	return pg, pg.Close, nil
}
