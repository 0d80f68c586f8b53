// Package moderation implements URL filtering for command text.
//
// Filter is a pure function over an immutable Policy: it redacts URLs whose
// host is outside the allowlist unless the sender is a moderator. Callers own
// all logging and user-facing messaging.
package moderation
