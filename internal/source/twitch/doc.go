// Package twitch is the callback-driven source adapter for Twitch chat.
//
// It speaks the Twitch IRC dialect over a WebSocket connection: tags give us
// bits amounts and moderator badges, PRIVMSG carries the chat text, and Say
// posts acknowledgements back into the channel. One read loop handles events
// strictly one at a time.
package twitch
