package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Xenthio/AIChaos/internal/config"
)

// BrainHealth reports whether the brain backend is currently accepting
// dispatches. Satisfied by *brain.Client.
type BrainHealth interface {
	Healthy() bool
}

// CooldownStats exposes the rate limiter's live entry count for the status
// endpoint. Satisfied by *ratelimit.Limiter.
type CooldownStats interface {
	Len() int
}

// PlatformStates returns the current lifecycle state of each running source
// adapter, keyed by platform name.
type PlatformStates func() map[string]string

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	brain     BrainHealth
	cooldowns CooldownStats
	platforms PlatformStates
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, brain BrainHealth, cooldowns CooldownStats, platforms PlatformStates, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	srv := &Server{
		echo:      e,
		config:    cfg,
		brain:     brain,
		cooldowns: cooldowns,
		platforms: platforms,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting ops server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
