package domain

// EventKind discriminates the raw event variants an adapter can produce.
type EventKind string

const (
	// KindChatCommand is a plain chat message that matched the command
	// prefix. It may still carry a virtual-currency amount (bits).
	KindChatCommand EventKind = "chat_command"
	// KindPaidHighlight is a paid, elevated-visibility message (Super Chat)
	// carrying a free-form amount string and a currency code.
	KindPaidHighlight EventKind = "paid_highlight"
)

// Author is the sender of a raw event as reported by the platform.
type Author struct {
	Name string
	// IsModerator reflects the platform-native role flag only. The static
	// moderator allowlist is applied later, during normalization.
	IsModerator bool
}

// PaidDetails carries the payment fields of a paid highlight. The amount is
// the platform's display string (currency symbol plus digits) and is parsed
// during normalization.
type PaidDetails struct {
	AmountString string
	Currency     string
}

// RawEvent is a platform event after the adapter stripped its command prefix
// but before normalization. Optional parts are explicit: Paid is nil for
// unpaid events and Bits is 0 when the message carried none.
type RawEvent struct {
	Kind     EventKind
	Platform Platform
	Author   Author
	Text     string
	Bits     int
	Paid     *PaidDetails
}
