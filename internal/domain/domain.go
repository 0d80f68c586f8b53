package domain

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies which source adapter produced an event.
type Platform string

const (
	PlatformTwitch  Platform = "twitch"
	PlatformYouTube Platform = "youtube"
)

// Command is the canonical, normalized form of an audience interaction.
// It is constructed once per inbound event and discarded after dispatch.
type Command struct {
	ID             uuid.UUID
	Author         string
	RawText        string
	NormalizedText string
	Platform       Platform
	// Amount is the parsed monetary value of a paid highlight, 0 when the
	// event carried no payment or the amount string failed to parse.
	Amount   float64
	Currency string
	// Bits is the platform virtual-currency amount attached to a chat
	// message, 0 when absent.
	Bits        int
	IsModerator bool
	ReceivedAt  time.Time
}

// CooldownKey identifies the author for rate limiting. Keys are scoped per
// platform: no cross-platform identity unification is attempted, so the same
// name on two platforms cools down independently.
func (c Command) CooldownKey() string {
	return string(c.Platform) + ":" + c.Author
}

// PaidAmount returns the value the threshold gate should judge: the monetary
// amount when present, otherwise the virtual-currency amount.
func (c Command) PaidAmount() float64 {
	if c.Amount > 0 {
		return c.Amount
	}
	return float64(c.Bits)
}
