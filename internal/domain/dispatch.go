package domain

import "context"

// DispatchReason classifies the outcome of a single dispatch attempt.
type DispatchReason string

const (
	// ReasonQueued means the brain accepted the command for execution.
	ReasonQueued DispatchReason = "queued"
	// ReasonSafetyRejected means the brain explicitly declined the command.
	ReasonSafetyRejected DispatchReason = "safety_rejected"
	// ReasonBackendUnreachable means the request never produced an HTTP
	// response (network failure, timeout, or open circuit).
	ReasonBackendUnreachable DispatchReason = "backend_unreachable"
	// ReasonBackendError means the brain answered with a non-200 status or
	// a body the client could not interpret.
	ReasonBackendError DispatchReason = "backend_error"
)

// DispatchResult is the classified response of one dispatch attempt.
// Message carries the brain-supplied explanation for safety rejections.
type DispatchResult struct {
	Accepted bool
	Reason   DispatchReason
	Message  string
}

// Dispatcher sends a normalized command text to the brain. Implementations
// make exactly one attempt per call: no retry, no backoff.
type Dispatcher interface {
	Dispatch(ctx context.Context, prompt string) DispatchResult
}
