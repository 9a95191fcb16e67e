// cmd/guessreveal-web/main.go
//
// Browser front for the commit/reveal guessing game.
// Wires config → backend client → session store (+ optional history log) → HTTP server,
// and shuts down gracefully on SIGINT/SIGTERM.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessreveal/internal/api"
	"github.com/robalobadob/guessreveal/internal/config"
	"github.com/robalobadob/guessreveal/internal/history"
	"github.com/robalobadob/guessreveal/internal/httpserver"
	"github.com/robalobadob/guessreveal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	opts := httpserver.Options{
		Backend:  api.New(cfg.APIURL, cfg.APITimeout),
		Sessions: store.NewMemoryStore(),
		Secret:   cfg.SessionSecret,
		TTL:      cfg.SessionTTL,
		Secure:   cfg.Production,
	}
	if cfg.HistoryDB != "" {
		db, err := history.Open(cfg.HistoryDB)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.HistoryDB).Msg("open history db")
		}
		defer db.Close()
		opts.History = history.NewStore(db)
	}

	srv, err := httpserver.New(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.SweepEvery(ctx, 10*time.Minute)

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      40 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutCtx)
	}()

	log.Info().Str("port", cfg.Port).Str("api", cfg.APIURL).Bool("history", opts.History != nil).Msg("starting guessreveal-web")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}
