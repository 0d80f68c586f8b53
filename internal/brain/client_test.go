package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xenthio/AIChaos/internal/domain"
)

func TestDispatch_Queued(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/trigger", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result := client.Dispatch(context.Background(), "spawn zombies")

	assert.True(t, result.Accepted)
	assert.Equal(t, domain.ReasonQueued, result.Reason)
	assert.Equal(t, "spawn zombies", gotBody["prompt"])
}

func TestDispatch_SafetyRejectedCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ignored", "message": "too violent"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result := client.Dispatch(context.Background(), "something nasty")

	assert.False(t, result.Accepted)
	assert.Equal(t, domain.ReasonSafetyRejected, result.Reason)
	assert.Equal(t, "too violent", result.Message)
}

func TestDispatch_NonOKStatusIsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result := client.Dispatch(context.Background(), "anything")

	assert.False(t, result.Accepted)
	assert.Equal(t, domain.ReasonBackendError, result.Reason)
}

func TestDispatch_MalformedBodyIsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result := client.Dispatch(context.Background(), "anything")

	assert.Equal(t, domain.ReasonBackendError, result.Reason)
}

func TestDispatch_UnknownStatusIsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "exploded"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result := client.Dispatch(context.Background(), "anything")

	assert.Equal(t, domain.ReasonBackendError, result.Reason)
}

func TestDispatch_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := NewClient(srv.URL, 500*time.Millisecond)
	result := client.Dispatch(context.Background(), "anything")

	assert.False(t, result.Accepted)
	assert.Equal(t, domain.ReasonBackendUnreachable, result.Reason)
}

func TestDispatch_SingleAttemptPerCall(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	client.Dispatch(context.Background(), "anything")

	assert.Equal(t, 1, attempts)
}

func TestHealthy_DefaultsToTrue(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	assert.True(t, client.Healthy())
}
