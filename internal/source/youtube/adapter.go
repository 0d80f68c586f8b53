package youtube

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Xenthio/AIChaos/internal/domain"
	"github.com/Xenthio/AIChaos/internal/pipeline"
)

// State is the adapter's position in the live session lifecycle. Terminal
// states tell the operator whether a restart can help: Ended and
// InvalidSession cannot be fixed by retrying with the same video id.
type State string

const (
	StateIdle           State = "idle"
	StateConnecting     State = "connecting"
	StateLive           State = "live"
	StateEnded          State = "ended"
	StateInvalidSession State = "invalid_session"
	StateTransportError State = "transport_error"
)

type Config struct {
	APIKey           string
	VideoID          string
	CommandPrefix    string
	AllowRegularChat bool
	MinSuperChat     float64
	PollInterval     time.Duration
}

// Adapter polls a live chat transport and feeds qualifying messages into the
// pipeline. Super Chats are gated on the configured minimum amount; plain
// chat is only honored when AllowRegularChat is set and the message carries
// the command prefix.
type Adapter struct {
	cfg       Config
	pipe      *pipeline.Pipeline
	gate      domain.ThresholdPolicy
	transport Transport
	clock     clockwork.Clock
	log       *slog.Logger

	mu    sync.RWMutex
	state State
}

func NewAdapter(cfg Config, pipe *pipeline.Pipeline, transport Transport, clock clockwork.Clock, log *slog.Logger) *Adapter {
	return &Adapter{
		cfg:  cfg,
		pipe: pipe,
		gate: domain.ThresholdPolicy{
			RequirePayment: true,
			MinimumAmount:  cfg.MinSuperChat,
		},
		transport: transport,
		clock:     clock,
		log:       log.With("platform", domain.PlatformYouTube),
		state:     StateIdle,
	}
}

// State returns the current lifecycle state, safe for concurrent readers.
func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Adapter) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// Run connects to the live chat and polls it until the stream ends, the
// context is canceled, or the transport fails. A finished stream is a normal
// exit and returns nil.
func (a *Adapter) Run(ctx context.Context) error {
	a.setState(StateConnecting)

	if err := a.transport.Connect(ctx); err != nil {
		switch {
		case errors.Is(err, ErrInvalidVideoID):
			a.setState(StateInvalidSession)
			a.log.Error("Video id is invalid or not a live stream", "video_id", a.cfg.VideoID)
		case errors.Is(err, ErrChatEnded):
			a.setState(StateEnded)
			a.log.Info("Live chat already ended", "video_id", a.cfg.VideoID)
			return nil
		default:
			a.setState(StateTransportError)
		}
		return err
	}

	a.setState(StateLive)
	a.log.Info("Listening to live chat",
		"video_id", a.cfg.VideoID,
		"allow_regular_chat", a.cfg.AllowRegularChat,
		"min_super_chat", a.cfg.MinSuperChat,
	)

	ticker := a.clock.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.setState(StateEnded)
			return ctx.Err()
		case <-ticker.Chan():
		}

		messages, err := a.transport.Poll(ctx)
		if err != nil {
			if errors.Is(err, ErrChatEnded) {
				a.setState(StateEnded)
				a.log.Info("Live chat ended, stopping", "video_id", a.cfg.VideoID)
				return nil
			}
			a.setState(StateTransportError)
			return err
		}

		for _, msg := range messages {
			a.handleMessage(ctx, msg)
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg Message) {
	switch msg.Kind {
	case KindSuperChat:
		a.handleSuperChat(ctx, msg)
	case KindText:
		a.handleText(ctx, msg)
	}
}

func (a *Adapter) handleSuperChat(ctx context.Context, msg Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		a.log.Info("Super Chat without a comment, skipping",
			"author", msg.Author,
			"amount", msg.AmountString,
		)
		return
	}

	raw := domain.RawEvent{
		Kind:     domain.KindPaidHighlight,
		Platform: domain.PlatformYouTube,
		Author:   domain.Author{Name: msg.Author, IsModerator: msg.IsModerator},
		Text:     text,
		Paid: &domain.PaidDetails{
			AmountString: msg.AmountString,
			Currency:     msg.Currency,
		},
	}

	outcome := a.pipe.Process(ctx, raw, a.gate, nil)
	a.logOutcome(outcome, msg.Author)
}

func (a *Adapter) handleText(ctx context.Context, msg Message) {
	if !a.cfg.AllowRegularChat {
		return
	}
	prompt, ok := commandPrompt(msg.Text, a.cfg.CommandPrefix)
	if !ok || prompt == "" {
		return
	}

	raw := domain.RawEvent{
		Kind:     domain.KindChatCommand,
		Platform: domain.PlatformYouTube,
		Author:   domain.Author{Name: msg.Author, IsModerator: msg.IsModerator},
		Text:     prompt,
	}

	outcome := a.pipe.Process(ctx, raw, domain.Ungated, nil)
	a.logOutcome(outcome, msg.Author)
}

func (a *Adapter) logOutcome(outcome pipeline.Outcome, author string) {
	// No chat replies on YouTube: the API key is read-only.
	switch outcome.Status {
	case pipeline.StatusDispatched:
		a.log.Info("Chaos command dispatched", "author", author)
	case pipeline.StatusBelowThreshold:
		a.log.Info("Super Chat below minimum amount",
			"author", author,
			"minimum", a.cfg.MinSuperChat,
		)
	case pipeline.StatusOnCooldown:
		a.log.Info("Author on cooldown", "author", author, "retry_in", outcome.Retry)
	case pipeline.StatusSafetyRejected:
		a.log.Info("Command blocked by safety", "author", author, "reason", outcome.Message)
	default:
		a.log.Warn("Dispatch failed", "author", author, "status", outcome.Status)
	}
}

// commandPrompt checks the prefix and returns the prompt after it. Unlike
// Twitch's command handling, a separator is not required after the prefix.
func commandPrompt(text, prefix string) (string, bool) {
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	return strings.TrimSpace(text[len(prefix):]), true
}
