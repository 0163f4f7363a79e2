package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/adapters/court"
	router "github.com/dkeye/CourtBridge/internal/adapters/http"
	"github.com/dkeye/CourtBridge/internal/app"
	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/config"
	"github.com/dkeye/CourtBridge/internal/session"
	"github.com/dkeye/CourtBridge/internal/vote"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setLevel(cfg.LogLevel)
	cfg.Watch(func(next *config.Config) {
		setLevel(next.LogLevel)
	})

	dialer, err := court.NewDialer(cfg.Court)
	if err != nil {
		log.Fatal().Err(err).Msg("bad court config")
	}

	hub := app.NewHub(app.TolerantPolicy{MaxMissed: 8}, clock.Real())
	sess := session.New(session.OptionsFromConfig(cfg, dialer, hub))
	votes := vote.NewCoordinator(vote.OptionsFromConfig(cfg.Vote), clock.Real(), sess, hub)

	if err := sess.Start(ctx); err != nil {
		log.Error().Err(err).Msg("courtroom not reachable yet")
	}

	r := router.SetupRouter(cfg, sess, votes, hub)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("room", cfg.Court.RoomID).Msg("CourtBridge started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
	defer shutdownCancel()

	votes.Close()
	if err := sess.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("session shutdown")
	}
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Bridge exited gracefully")
}

func setLevel(name string) {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return
	}
	if lvl != zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
		log.Info().Str("level", lvl.String()).Msg("log level set")
	}
}
