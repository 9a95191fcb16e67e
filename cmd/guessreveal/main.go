// cmd/guessreveal/main.go
//
// Terminal client for the commit/reveal guessing game.
// Reads settings from the environment (.env supported), lets flags override
// the backend URL and log level, then runs the interactive loop on stdin/stdout.
// Logs go to stderr so they never interleave with the game screens.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessreveal/internal/api"
	"github.com/robalobadob/guessreveal/internal/config"
	"github.com/robalobadob/guessreveal/internal/controller"
	"github.com/robalobadob/guessreveal/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	apiURL := flag.String("api", cfg.APIURL, "game backend base URL")
	level := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := api.New(*apiURL, cfg.APITimeout)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if h, err := client.Health(pingCtx); err != nil {
		log.Warn().Err(err).Str("api", client.BaseURL()).Msg("backend not reachable; actions will fail until it is up")
	} else {
		log.Debug().Str("status", h.Status).Str("api", client.BaseURL()).Msg("backend ok")
	}
	cancel()

	ui := terminal.New(os.Stdin, os.Stdout, controller.New(client))
	if err := ui.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("terminal exited")
	}
}
