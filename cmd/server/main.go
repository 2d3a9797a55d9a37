package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"skullking-game/internal/config"
	"skullking-game/internal/game"
	"skullking-game/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config.")
	}
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	log.Info("Starting Skull King server...")

	g, err := game.NewGame(game.Options{
		Deck:     cfg.DeckConfig(),
		MinSeats: cfg.MinSeats,
		MaxSeats: cfg.MaxSeats,
		Rounds:   cfg.Rounds,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create game.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := server.NewHub(g)
	go hub.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(server.RequestIDMiddleware())
	e.Use(server.LoggingMiddleware(log.StandardLogger()))
	server.NewHandler(g, hub).Register(e)

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Listening.")
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server error.")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Shutdown error.")
	}
}
