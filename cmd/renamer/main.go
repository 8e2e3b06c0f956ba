package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/config"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/httpapi"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/journal"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/opencode"
	"github.com/joseph-bing-han/opencode-session-renamer/internal/renamer"
	"github.com/rs/zerolog"
)

func projectDirectory() string {
	if v := os.Getenv("OPENCODE_PROJECT_DIR"); v != "" {
		return v
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load(projectDirectory())

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "session-renamer").Logger()

	client := opencode.NewClient(cfg.ServerURL)

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		var err error
		jnl, err = journal.Open(cfg.JournalPath, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("open rename journal")
		}
	}

	tracker := renamer.NewTracker()

	// The interface indirection keeps the journal strictly optional: a nil
	// *Journal inside a non-nil Recorder would still be called.
	var recorder renamer.Recorder
	if jnl != nil {
		recorder = jnl
	}

	svc := renamer.NewService(client, cfg, tracker, recorder, log)

	if cfg.StatusAddr != "" {
		router := httpapi.NewRouter(cfg, tracker, jnl, log)
		go func() {
			if err := router.Run(cfg.StatusAddr); err != nil {
				log.Error().Err(err).Msg("status server stopped")
			}
		}()
		log.Info().Str("addr", cfg.StatusAddr).Msg("status server listening")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("server", cfg.ServerURL).Str("model", cfg.Model).Msg("session renamer started")

	for ctx.Err() == nil {
		events, errs := client.Events(ctx)

		for ev := range events {
			if ev.Message.Role != "assistant" || !ev.Completed() {
				continue
			}
			svc.HandleMessage(ctx, ev)
		}

		if err := <-errs; err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("event stream lost, reconnecting")
		}

		select {
		case <-ctx.Done():
		case <-time.After(opencode.EventRetryDelay):
		}
	}

	log.Info().Msg("shutting down, draining rename tasks")
	svc.Wait()
}
