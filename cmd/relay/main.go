package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Xenthio/AIChaos/internal/brain"
	"github.com/Xenthio/AIChaos/internal/config"
	"github.com/Xenthio/AIChaos/internal/logging"
	"github.com/Xenthio/AIChaos/internal/moderation"
	"github.com/Xenthio/AIChaos/internal/pipeline"
	"github.com/Xenthio/AIChaos/internal/ratelimit"
	"github.com/Xenthio/AIChaos/internal/server"
	"github.com/Xenthio/AIChaos/internal/source/twitch"
	"github.com/Xenthio/AIChaos/internal/source/youtube"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// platformTracker collects adapter lifecycle states for the status endpoint.
type platformTracker struct {
	mu     sync.RWMutex
	states map[string]func() string
}

func newPlatformTracker() *platformTracker {
	return &platformTracker{states: make(map[string]func() string)}
}

func (t *platformTracker) register(platform string, state func() string) {
	t.mu.Lock()
	t.states[platform] = state
	t.mu.Unlock()
}

func (t *platformTracker) snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]string, len(t.states))
	for platform, state := range t.states {
		out[platform] = state()
	}
	return out
}

func runGracefulShutdown(srv *server.Server, cancelAdapters context.CancelFunc, stopEviction func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		cancelAdapters()
		stopEviction()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	policy := moderation.Policy{
		BlockURLs:      cfg.BlockURLs,
		AllowedDomains: cfg.AllowedDomains,
		Moderators:     cfg.Moderators,
	}

	limiter := ratelimit.New(cfg.CooldownWindow, clock)
	stopEviction := limiter.StartEvictionTimer(1 * time.Minute)

	brainClient := brain.NewClient(cfg.BrainURL, cfg.DispatchTimeout)
	pipe := pipeline.New(policy, limiter, brainClient, clock, slog.Default())

	ctx, cancelAdapters := context.WithCancel(context.Background())
	tracker := newPlatformTracker()

	if cfg.TwitchEnabled() {
		adapter := twitch.NewAdapter(twitch.Config{
			Token:         cfg.TwitchToken,
			Nick:          cfg.TwitchNick,
			Channel:       cfg.TwitchChannel,
			CommandPrefix: cfg.CommandPrefix,
			RequireBits:   cfg.RequireBits,
			MinBits:       cfg.MinBits,
		}, pipe, slog.Default())

		var state atomic.Value
		state.Store("running")
		tracker.register("twitch", func() string { return state.Load().(string) })

		go func() {
			if err := adapter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Twitch adapter stopped", "error", err)
			}
			state.Store("stopped")
		}()
	}

	if cfg.YouTubeEnabled() {
		transport := youtube.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeVideoID, cfg.DispatchTimeout)
		adapter := youtube.NewAdapter(youtube.Config{
			APIKey:           cfg.YouTubeAPIKey,
			VideoID:          cfg.YouTubeVideoID,
			CommandPrefix:    cfg.CommandPrefix,
			AllowRegularChat: cfg.AllowRegularChat,
			MinSuperChat:     cfg.MinSuperChat,
			PollInterval:     cfg.PollInterval,
		}, pipe, transport, clock, slog.Default())

		tracker.register("youtube", func() string { return string(adapter.State()) })

		go func() {
			if err := adapter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("YouTube adapter stopped", "error", err)
			}
		}()
	}

	srv := server.NewServer(cfg, brainClient, limiter, tracker.snapshot, clock)

	done := runGracefulShutdown(srv, cancelAdapters, stopEviction)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
