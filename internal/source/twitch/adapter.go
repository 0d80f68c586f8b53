package twitch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/Xenthio/AIChaos/internal/domain"
	"github.com/Xenthio/AIChaos/internal/pipeline"
)

// ChatConn is the transport the adapter reads from and replies through.
// Satisfied by *Conn; tests substitute a scripted fake.
type ChatConn interface {
	ReadLine() (string, error)
	SendRaw(line string) error
	Say(channel, text string) error
	Close() error
}

type Config struct {
	Token         string
	Nick          string
	Channel       string
	CommandPrefix string
	RequireBits   bool
	MinBits       int
}

// Adapter consumes Twitch chat and feeds qualifying messages into the
// pipeline. The single read loop guarantees events are processed one at a
// time; a slow dispatch simply delays the next read.
type Adapter struct {
	cfg  Config
	pipe *pipeline.Pipeline
	gate domain.ThresholdPolicy
	conn ChatConn
	log  *slog.Logger
}

func NewAdapter(cfg Config, pipe *pipeline.Pipeline, log *slog.Logger) *Adapter {
	return &Adapter{
		cfg:  cfg,
		pipe: pipe,
		gate: domain.ThresholdPolicy{
			RequirePayment: cfg.RequireBits,
			MinimumAmount:  float64(cfg.MinBits),
		},
		log: log.With("platform", domain.PlatformTwitch),
	}
}

// Run connects (unless a connection was injected) and processes chat until
// the context is canceled or the connection fails.
func (a *Adapter) Run(ctx context.Context) error {
	if a.conn == nil {
		conn, err := DialChat(ctx, a.cfg.Token, a.cfg.Nick, a.cfg.Channel)
		if err != nil {
			return err
		}
		a.conn = conn
	}
	defer func() { _ = a.conn.Close() }()

	// Unblock the read loop when the context ends.
	go func() {
		<-ctx.Done()
		_ = a.conn.Close()
	}()

	a.log.Info("Listening for chaos commands",
		"channel", a.cfg.Channel,
		"prefix", a.cfg.CommandPrefix,
		"require_bits", a.cfg.RequireBits,
	)

	for {
		line, err := a.conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("twitch: read: %w", err)
		}
		a.handleLine(ctx, line)
	}
}

func (a *Adapter) handleLine(ctx context.Context, line string) {
	msg := parseIRCLine(line)
	switch msg.Command {
	case "PING":
		if err := a.conn.SendRaw("PONG :" + msg.Text); err != nil {
			a.log.Warn("Failed to answer ping", "error", err)
		}
	case "PRIVMSG":
		if cm, ok := newChatMessage(msg); ok {
			a.handleChat(ctx, cm)
		}
	case "NOTICE":
		a.log.Info("Server notice", "text", msg.Text)
	}
}

func (a *Adapter) handleChat(ctx context.Context, cm chatMessage) {
	prompt, ok := splitCommand(cm.Text, a.cfg.CommandPrefix)
	if !ok {
		return
	}
	if prompt == "" {
		a.reply(cm, fmt.Sprintf("Usage: %s <your chaos request>", a.cfg.CommandPrefix))
		return
	}

	raw := domain.RawEvent{
		Kind:     domain.KindChatCommand,
		Platform: domain.PlatformTwitch,
		Author:   domain.Author{Name: cm.Author, IsModerator: cm.IsModerator},
		Text:     prompt,
		Bits:     cm.Bits,
	}

	// Acknowledge receipt before the brain call; the dispatch can take up to
	// the full timeout and chat should not go quiet meanwhile.
	outcome := a.pipe.Process(ctx, raw, a.gate, func(_ domain.Command, filtered bool) {
		if filtered {
			a.reply(cm, "URLs have been filtered from your message.")
		}
		a.reply(cm, "Processing your chaos request...")
	})
	a.reply(cm, ackMessage(outcome, a.cfg.MinBits))
}

// splitCommand checks the prefix and returns the prompt after it. The prefix
// must be the whole first word: "!chaosx" does not qualify for "!chaos".
func splitCommand(text, prefix string) (string, bool) {
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	rest := text[len(prefix):]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func ackMessage(outcome pipeline.Outcome, minBits int) string {
	switch outcome.Status {
	case pipeline.StatusDispatched:
		return "Chaos has been unleashed!"
	case pipeline.StatusBelowThreshold:
		return fmt.Sprintf("Please cheer with at least %d bits to use chaos!", minBits)
	case pipeline.StatusOnCooldown:
		wait := int(math.Ceil(outcome.Retry.Seconds()))
		return fmt.Sprintf("Please wait %d seconds between commands!", wait)
	case pipeline.StatusSafetyRejected:
		if outcome.Message != "" {
			return "Your request was blocked by safety: " + outcome.Message
		}
		return "Your request was blocked by safety filters."
	default:
		return "Failed to process your request. The AI Brain might be offline!"
	}
}

// reply addresses the sender by display name when the tag is present, falling
// back to the login name, and answers in the channel the message came from.
func (a *Adapter) reply(cm chatMessage, text string) {
	name := cm.DisplayName
	if name == "" {
		name = cm.Author
	}
	if err := a.conn.Say(cm.Channel, fmt.Sprintf("@%s %s", name, text)); err != nil {
		a.log.Warn("Failed to send chat reply", "author", cm.Author, "error", err)
	}
}
