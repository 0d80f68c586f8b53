package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Xenthio/AIChaos/internal/domain"
	"github.com/Xenthio/AIChaos/internal/moderation"
)

// ParseAmount extracts a numeric value from a free-form paid amount string
// such as "$1.00" or "€5,000.00". Only digit and decimal-point characters are
// kept; a string that still fails to parse yields 0, which routes the event
// into the threshold gate as a sub-minimum payment instead of crashing the
// adapter.
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	amount, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return amount
}

// Normalize maps a raw adapter event into the canonical Command. Optional
// fields that are absent normalize to their zero values, never to an error.
// The moderator flag combines the platform role with the static allowlist.
func Normalize(raw domain.RawEvent, policy moderation.Policy, now time.Time) domain.Command {
	cmd := domain.Command{
		ID:          uuid.New(),
		Author:      raw.Author.Name,
		RawText:     raw.Text,
		Platform:    raw.Platform,
		Bits:        raw.Bits,
		IsModerator: raw.Author.IsModerator || policy.IsListedModerator(raw.Author.Name),
		ReceivedAt:  now,
	}
	if raw.Paid != nil {
		cmd.Amount = ParseAmount(raw.Paid.AmountString)
		cmd.Currency = raw.Paid.Currency
	}
	return cmd
}
