package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Doodle/internal/adapters/http"
	wssignal "github.com/dkeye/Doodle/internal/adapters/signal"
	"github.com/dkeye/Doodle/internal/app"
	"github.com/dkeye/Doodle/internal/app/gateway"
	"github.com/dkeye/Doodle/internal/config"
	"github.com/dkeye/Doodle/internal/domain"
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
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	hub := wssignal.NewHub()
	reg := app.NewRegistry(app.RegistryConfig{
		Limits: app.Limits{
			MaxPlayers:    cfg.Rooms.MaxPlayers,
			CodeAttempts:  cfg.Rooms.CodeAttempts,
			MaxChatLength: cfg.Rooms.MaxChatLength,
		},
		Plan: app.PhasePlan{
			Tick:      cfg.Game.Tick,
			Countdown: cfg.Game.Countdown,
			Phases: []app.PhaseSpec{
				{State: domain.StateDrawing, Duration: cfg.Game.DrawingTime},
				{State: domain.StateCaptioning, Duration: cfg.Game.CaptionTime},
			},
		},
		Policy: app.SimplePolicy{},
	}, hub)
	defer reg.Close()

	ctl := wssignal.NewSignalWSController(gateway.New(reg, hub), hub, wssignal.Options{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		SendBuffer:     cfg.SendBuffer,
		AllowedOrigins: cfg.AllowedOrigins,
		MessageRate:    cfg.Signal.MessageRate,
		MessageBurst:   cfg.Signal.MessageBurst,
		JoinLimit:      cfg.Signal.JoinRate,
		JoinWindow:     cfg.Signal.JoinWindow,
	})

	r := router.SetupRouter(ctx, cfg, ctl, reg)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Doodle server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	rooms, players := reg.Counts()
	log.Info().Int("rooms", rooms).Int("players", players).Msg("Server exited gracefully")
}
