package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xenthio/AIChaos/internal/config"
)

type fakeBrain struct{ healthy bool }

func (f *fakeBrain) Healthy() bool { return f.healthy }

type fakeCooldowns struct{ n int }

func (f *fakeCooldowns) Len() int { return f.n }

func newTestServer(brain *fakeBrain) *Server {
	cfg := &config.Config{Port: "8080"}
	platforms := func() map[string]string {
		return map[string]string{"twitch": "running", "youtube": "live"}
	}
	return NewServer(cfg, brain, &fakeCooldowns{n: 3}, platforms, clockwork.NewFakeClock())
}

func doRequest(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHandleLiveness(t *testing.T) {
	rec := doRequest(newTestServer(&fakeBrain{healthy: true}), "/health/live")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleReadiness(t *testing.T) {
	t.Run("brain healthy", func(t *testing.T) {
		rec := doRequest(newTestServer(&fakeBrain{healthy: true}), "/health/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("brain circuit open", func(t *testing.T) {
		rec := doRequest(newTestServer(&fakeBrain{healthy: false}), "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "brain", body["failed_check"])
	})
}

func TestHandleStatus(t *testing.T) {
	rec := doRequest(newTestServer(&fakeBrain{healthy: true}), "/status")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Platforms       map[string]string `json:"platforms"`
		ActiveCooldowns int               `json:"active_cooldowns"`
		BrainHealthy    bool              `json:"brain_healthy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body.Platforms["twitch"])
	assert.Equal(t, "live", body.Platforms["youtube"])
	assert.Equal(t, 3, body.ActiveCooldowns)
	assert.True(t, body.BrainHealthy)
}

func TestHandleMetrics(t *testing.T) {
	rec := doRequest(newTestServer(&fakeBrain{healthy: true}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleVersion(t *testing.T) {
	rec := doRequest(newTestServer(&fakeBrain{healthy: true}), "/version")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["go_version"])
}
