package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/puoklam/spot-backend/db"
	"github.com/puoklam/spot-backend/env"
	"github.com/puoklam/spot-backend/logger"
	"github.com/puoklam/spot-backend/server"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := env.Load(cfgPath)
	l := logger.New(cfg.LogLevel, cfg.LogPretty, os.Stdout)
	if err != nil {
		l.Fatal().Err(err).Msg("load config")
	}

	store, err := db.Open(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("open database")
	}
	defer store.Close()

	r := server.NewRouter(cfg, store, l)

	srv := server.New(r, cfg)
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("serve")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("shutdown")
	}
	l.Info().Msg("quit")
}
