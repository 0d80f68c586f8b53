package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Xenthio/AIChaos/internal/domain"
	"github.com/Xenthio/AIChaos/internal/moderation"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"dollar sign", "$1.00", 1.00},
		{"cents", "$0.50", 0.50},
		{"currency code prefix", "CA$5.00", 5.00},
		{"thousands separator", "¥1,000", 1000},
		{"plain number", "42", 42},
		{"garbage", "free!!", 0},
		{"empty", "", 0},
		{"multiple dots", "1.2.3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.input))
		})
	}
}

func TestNormalize_ChatCommand(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	raw := domain.RawEvent{
		Kind:     domain.KindChatCommand,
		Platform: domain.PlatformTwitch,
		Author:   domain.Author{Name: "alice"},
		Text:     "spawn zombies",
		Bits:     150,
	}

	cmd := Normalize(raw, moderation.Policy{}, now)

	assert.NotEqual(t, "", cmd.ID.String())
	assert.Equal(t, "alice", cmd.Author)
	assert.Equal(t, "spawn zombies", cmd.RawText)
	assert.Equal(t, domain.PlatformTwitch, cmd.Platform)
	assert.Equal(t, 150, cmd.Bits)
	assert.Equal(t, 0.0, cmd.Amount)
	assert.False(t, cmd.IsModerator)
	assert.Equal(t, now, cmd.ReceivedAt)
}

func TestNormalize_PaidHighlight(t *testing.T) {
	raw := domain.RawEvent{
		Kind:     domain.KindPaidHighlight,
		Platform: domain.PlatformYouTube,
		Author:   domain.Author{Name: "bob"},
		Text:     "make it rain",
		Paid:     &domain.PaidDetails{AmountString: "$2.50", Currency: "USD"},
	}

	cmd := Normalize(raw, moderation.Policy{}, time.Now())

	assert.Equal(t, 2.50, cmd.Amount)
	assert.Equal(t, "USD", cmd.Currency)
	assert.Equal(t, 0, cmd.Bits)
}

func TestNormalize_MissingPaidFieldsAreAbsentNotErrors(t *testing.T) {
	raw := domain.RawEvent{
		Kind:     domain.KindChatCommand,
		Platform: domain.PlatformYouTube,
		Author:   domain.Author{Name: "carol"},
		Text:     "do something",
	}

	cmd := Normalize(raw, moderation.Policy{}, time.Now())

	assert.Equal(t, 0.0, cmd.Amount)
	assert.Equal(t, "", cmd.Currency)
	assert.Equal(t, 0, cmd.Bits)
}

func TestNormalize_ModeratorFromPlatformFlag(t *testing.T) {
	raw := domain.RawEvent{
		Kind:     domain.KindChatCommand,
		Platform: domain.PlatformTwitch,
		Author:   domain.Author{Name: "dave", IsModerator: true},
		Text:     "hi",
	}

	cmd := Normalize(raw, moderation.Policy{}, time.Now())
	assert.True(t, cmd.IsModerator)
}

func TestNormalize_ModeratorFromStaticAllowlist(t *testing.T) {
	policy := moderation.Policy{Moderators: []string{"TrustedMod"}}
	raw := domain.RawEvent{
		Kind:     domain.KindChatCommand,
		Platform: domain.PlatformYouTube,
		Author:   domain.Author{Name: "trustedmod"},
		Text:     "hi",
	}

	cmd := Normalize(raw, policy, time.Now())
	assert.True(t, cmd.IsModerator)
}

func TestCommand_PaidAmountPrefersMonetary(t *testing.T) {
	cmd := domain.Command{Amount: 2.5, Bits: 100}
	assert.Equal(t, 2.5, cmd.PaidAmount())

	cmd = domain.Command{Bits: 100}
	assert.Equal(t, 100.0, cmd.PaidAmount())

	cmd = domain.Command{}
	assert.Equal(t, 0.0, cmd.PaidAmount())
}

func TestThresholdPolicy_Passes(t *testing.T) {
	gate := domain.ThresholdPolicy{RequirePayment: true, MinimumAmount: 1.00}

	assert.True(t, gate.Passes(1.00), "equality passes")
	assert.True(t, gate.Passes(5.00))
	assert.False(t, gate.Passes(0.99), "strictly below fails")

	assert.True(t, domain.Ungated.Passes(0))
}
