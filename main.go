package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TripCu/ai-hotkey/api"
	"github.com/TripCu/ai-hotkey/config"
	"github.com/TripCu/ai-hotkey/notes"
	"github.com/TripCu/ai-hotkey/policy"
	"github.com/TripCu/ai-hotkey/prompts"
	"github.com/TripCu/ai-hotkey/provider"
	"github.com/TripCu/ai-hotkey/service"
	"github.com/TripCu/ai-hotkey/store"
	"github.com/TripCu/ai-hotkey/telemetry"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("backend", cfg.AIBackend).
		Str("model", cfg.Model()).
		Str("data_dir", cfg.DataDir).
		Msg("starting backend")

	// Initialize the dual-sink store
	st, err := store.NewDualStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer st.Close()

	// Initialize the provider
	p, err := provider.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider")
	}

	// Initialize the admission policy engine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	// Prompt templates and notes corpus
	library := prompts.Load(cfg.PromptsDir)
	retriever := notes.NewRetriever(cfg.NotesPath, notes.DefaultLimit)

	// Telemetry recorder plus background resource sampler
	recorder := telemetry.NewRecorder()
	go recorder.Run(ctx, telemetry.DefaultSampleInterval)

	svc := service.New(cfg, st, p, recorder, library, retriever, engine)
	h := api.NewHandler(svc, cfg, recorder)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("backend started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	log.Info().Msg("backend stopped")
}
