package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mira-mind/internal/ai"
	"mira-mind/internal/config"
	"mira-mind/internal/mind"
	"mira-mind/internal/rest"
	"mira-mind/internal/storage"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("config")
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}
	defer store.Close()

	provider, err := ai.NewProvider(cfg.AIProvider, cfg.AIAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("ai provider")
	}

	engine := mind.NewEngine(mind.Options{
		IdentityName: cfg.IdentityName,
		Recorder:     mind.NewZerologRecorder(log),
		Provider:     provider,
		Store:        store,
		Limiter:      mind.NewLLMRateLimiter(cfg.LLMCallsPerMinute, 0),
	})
	if err := engine.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start engine")
	}

	srv := rest.NewServer(engine, log)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.RESTAddr).Msg("rest server listening")
		errCh <- srv.Run(ctx, cfg.RESTAddr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("rest server error")
		}
		cancel()
	}

	if err := engine.Shutdown(); err != nil {
		log.Error().Err(err).Msg("engine shutdown")
	}
	log.Info().Msg("exited cleanly")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if cfg.LogFile != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
