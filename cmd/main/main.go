package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	brkHnd "brokerage-service/internal/brokerage/handler"
	"brokerage-service/internal/config"
	"brokerage-service/internal/prefs"
	serverhttp "brokerage-service/server/http"
)

func main() {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	profile, err := config.LoadProfile(cfg.ProfileFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("profile")
	}

	store, err := prefs.NewSQLite(cfg.PrefsDB)
	if err != nil {
		logger.Fatal().Err(err).Str("db", cfg.PrefsDB).Msg("preferences")
	}
	defer store.Close()

	h := brkHnd.New(cfg, logger, profile, store)
	r := serverhttp.NewRouter(cfg, logger, h)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Str("firm", profile.Name).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
