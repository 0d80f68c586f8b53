package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Xenthio/AIChaos/internal/domain"
	"github.com/Xenthio/AIChaos/internal/metrics"
	"github.com/Xenthio/AIChaos/internal/moderation"
	"github.com/Xenthio/AIChaos/internal/ratelimit"
)

// Status is the terminal classification of one event's trip through the
// pipeline.
type Status string

const (
	StatusDispatched         Status = "dispatched"
	StatusBelowThreshold     Status = "below_threshold"
	StatusOnCooldown         Status = "on_cooldown"
	StatusSafetyRejected     Status = "safety_rejected"
	StatusBackendUnreachable Status = "backend_unreachable"
	StatusBackendError       Status = "backend_error"
)

// Outcome reports what happened to a single event. Adapters translate it
// into the one acknowledgement every event owes its author.
type Outcome struct {
	Status   Status
	Command  domain.Command
	Filtered bool
	// Retry is the remaining cooldown, set for StatusOnCooldown.
	Retry time.Duration
	// Message carries the brain-supplied reason for StatusSafetyRejected.
	Message string
}

// Accepted reports whether the command reached the brain and was queued.
func (o Outcome) Accepted() bool {
	return o.Status == StatusDispatched
}

// PreDispatch is called once every local check has passed, immediately
// before the dispatcher is invoked. Adapters use it to acknowledge receipt
// while the brain call is in flight; the filtered flag lets them warn the
// author about redacted URLs in the same breath.
type PreDispatch func(cmd domain.Command, filtered bool)

// Pipeline wires the moderation policy, threshold gate, rate limiter, and
// dispatcher into one Process call. A single Pipeline is shared by all
// adapters; the limiter guards its own state.
type Pipeline struct {
	policy     moderation.Policy
	limiter    *ratelimit.Limiter
	dispatcher domain.Dispatcher
	clock      clockwork.Clock
	log        *slog.Logger
}

func New(policy moderation.Policy, limiter *ratelimit.Limiter, dispatcher domain.Dispatcher, clock clockwork.Clock, log *slog.Logger) *Pipeline {
	return &Pipeline{
		policy:     policy,
		limiter:    limiter,
		dispatcher: dispatcher,
		clock:      clock,
		log:        log,
	}
}

// Process runs one raw event through every stage. The gate is supplied per
// call because the adapter decides which threshold applies to the event it
// classified. The cooldown is only started after a successful dispatch, so a
// rejected or failed command can be retried immediately.
func (p *Pipeline) Process(ctx context.Context, raw domain.RawEvent, gate domain.ThresholdPolicy, notify PreDispatch) Outcome {
	metrics.EventsIngested.WithLabelValues(string(raw.Platform), string(raw.Kind)).Inc()

	cmd := Normalize(raw, p.policy, p.clock.Now())
	log := p.log.With("platform", cmd.Platform, "author", cmd.Author, "command_id", cmd.ID.String())

	normalized, wasFiltered := moderation.Filter(cmd.RawText, cmd.IsModerator, p.policy)
	cmd.NormalizedText = normalized
	if wasFiltered {
		metrics.URLRedactions.WithLabelValues(string(cmd.Platform)).Inc()
		log.Info("URLs redacted from command text")
	}

	if !gate.Passes(cmd.PaidAmount()) {
		log.Info("Command below payment threshold",
			"amount", cmd.PaidAmount(),
			"minimum", gate.MinimumAmount,
		)
		return p.finish(Outcome{Status: StatusBelowThreshold, Command: cmd, Filtered: wasFiltered})
	}

	if p.limiter.OnCooldown(cmd.CooldownKey()) {
		remaining := p.limiter.Remaining(cmd.CooldownKey())
		log.Info("Author on cooldown", "remaining", remaining)
		return p.finish(Outcome{Status: StatusOnCooldown, Command: cmd, Filtered: wasFiltered, Retry: remaining})
	}

	if notify != nil {
		notify(cmd, wasFiltered)
	}

	result := p.dispatcher.Dispatch(ctx, cmd.NormalizedText)
	outcome := Outcome{Command: cmd, Filtered: wasFiltered, Message: result.Message}

	switch result.Reason {
	case domain.ReasonQueued:
		p.limiter.MarkAccepted(cmd.CooldownKey())
		outcome.Status = StatusDispatched
		log.Info("Command queued by brain")
	case domain.ReasonSafetyRejected:
		outcome.Status = StatusSafetyRejected
		log.Info("Command blocked by brain safety", "reason", result.Message)
	case domain.ReasonBackendUnreachable:
		outcome.Status = StatusBackendUnreachable
		log.Warn("Brain unreachable")
	default:
		outcome.Status = StatusBackendError
		log.Warn("Brain returned an error")
	}
	return p.finish(outcome)
}

func (p *Pipeline) finish(o Outcome) Outcome {
	metrics.PipelineOutcomes.WithLabelValues(string(o.Command.Platform), string(o.Status)).Inc()
	return o
}
