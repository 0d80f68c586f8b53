package youtube

import (
	"context"
	"errors"
)

var (
	// ErrInvalidVideoID means the configured video does not exist or is not
	// a live stream. There is no point retrying.
	ErrInvalidVideoID = errors.New("youtube: invalid or non-live video id")
	// ErrChatEnded means the live chat closed because the stream finished.
	// This is a normal end of session, not a failure.
	ErrChatEnded = errors.New("youtube: live chat has ended")
)

// MessageKind separates paid Super Chats from plain chat messages.
type MessageKind string

const (
	KindText      MessageKind = "text"
	KindSuperChat MessageKind = "super_chat"
)

// Message is one live chat entry reduced to the fields the adapter uses.
// AmountString and Currency are only set for KindSuperChat.
type Message struct {
	Kind         MessageKind
	Author       string
	IsModerator  bool
	Text         string
	AmountString string
	Currency     string
}

// Transport fetches live chat messages for one video. Satisfied by *Client;
// tests substitute a scripted fake.
type Transport interface {
	// Connect resolves the video's active live chat. It returns
	// ErrInvalidVideoID or ErrChatEnded for sessions that cannot start.
	Connect(ctx context.Context) error
	// Poll returns the messages that arrived since the previous call.
	// It returns ErrChatEnded once the chat closes.
	Poll(ctx context.Context) ([]Message, error)
}
