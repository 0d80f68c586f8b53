// Package ratelimit enforces a per-author cooldown between accepted commands.
//
// The Limiter owns the author-to-timestamp map and is safe for use by both
// source adapters at once. MarkAccepted is only called after a successful
// dispatch, so a rejected or failed command never starts a cooldown.
package ratelimit
