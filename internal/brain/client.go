package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"github.com/Xenthio/AIChaos/internal/domain"
	"github.com/Xenthio/AIChaos/internal/metrics"
)

const defaultTimeout = 5 * time.Second

// Client dispatches normalized command text to the brain's trigger endpoint.
// A circuit breaker sits in front of the POST: while the circuit is open,
// dispatches fail fast as BackendUnreachable without touching the network.
// The breaker only ever suppresses an attempt, it never adds one, so the
// one-attempt-per-command contract holds.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         circuitbreaker.CircuitBreaker[any]
	open       atomic.Bool
}

// NewClient creates a Client for the given brain base URL. A non-positive
// timeout falls back to the default of 5 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}

	// Open after a 60% connectivity-failure rate over a 10s window (min 5
	// requests); probe again after 10s with a single trial request.
	c.cb = circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(0.6, 5, 10*time.Second).
		WithDelay(10 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "brain",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			c.open.Store(e.NewState == circuitbreaker.OpenState)
			metrics.CircuitBreakerStateChanges.WithLabelValues("brain", e.NewState.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues("brain").Set(stateToFloat(e.NewState))
		}).
		Build()

	return c
}

// Healthy reports whether the circuit to the brain is not open. Used by the
// readiness probe.
func (c *Client) Healthy() bool {
	return !c.open.Load()
}

type triggerRequest struct {
	Prompt string `json:"prompt"`
}

type triggerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Dispatch POSTs the prompt to the trigger endpoint and classifies the
// response. It never returns an error; every failure mode maps to a
// DispatchResult reason.
func (c *Client) Dispatch(ctx context.Context, prompt string) domain.DispatchResult {
	result := c.dispatch(ctx, prompt)
	metrics.DispatchTotal.WithLabelValues(string(result.Reason)).Inc()
	return result
}

func (c *Client) dispatch(ctx context.Context, prompt string) domain.DispatchResult {
	if !c.cb.TryAcquirePermit() {
		return domain.DispatchResult{
			Reason:  domain.ReasonBackendUnreachable,
			Message: "circuit open",
		}
	}

	body, err := json.Marshal(triggerRequest{Prompt: prompt})
	if err != nil {
		c.cb.RecordSuccess()
		return domain.DispatchResult{Reason: domain.ReasonBackendError, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/trigger", bytes.NewReader(body))
	if err != nil {
		c.cb.RecordSuccess()
		return domain.DispatchResult{Reason: domain.ReasonBackendError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request never produced a response: connectivity failure.
		c.cb.RecordError(err)
		return domain.DispatchResult{Reason: domain.ReasonBackendUnreachable, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	// Any HTTP response means the backend is reachable, whatever the status.
	c.cb.RecordSuccess()

	if resp.StatusCode != http.StatusOK {
		return domain.DispatchResult{
			Reason:  domain.ReasonBackendError,
			Message: fmt.Sprintf("brain returned status %d", resp.StatusCode),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.DispatchResult{Reason: domain.ReasonBackendError, Message: err.Error()}
	}

	var trigger triggerResponse
	if err := json.Unmarshal(respBody, &trigger); err != nil {
		return domain.DispatchResult{Reason: domain.ReasonBackendError, Message: "malformed brain response"}
	}

	switch trigger.Status {
	case "queued":
		return domain.DispatchResult{Accepted: true, Reason: domain.ReasonQueued}
	case "ignored":
		return domain.DispatchResult{Reason: domain.ReasonSafetyRejected, Message: trigger.Message}
	default:
		return domain.DispatchResult{
			Reason:  domain.ReasonBackendError,
			Message: fmt.Sprintf("unexpected brain status %q", trigger.Status),
		}
	}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}
