package server

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Xenthio/AIChaos/internal/version"
)

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.clock.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"brain", s.checkBrain},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			return c.JSON(503, map[string]any{
				"status":       "unhealthy",
				"failed_check": check.name,
				"error":        err.Error(),
			})
		}
	}

	return c.JSON(200, map[string]string{"status": "ready"})
}

func (s *Server) checkBrain() error {
	if !s.brain.Healthy() {
		return errors.New("brain circuit breaker is open")
	}
	return nil
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(200, map[string]any{
		"platforms":        s.platforms(),
		"active_cooldowns": s.cooldowns.Len(),
		"brain_healthy":    s.brain.Healthy(),
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}
