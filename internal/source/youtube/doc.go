// Package youtube polls a YouTube live stream's chat and feeds Super Chats
// and (optionally) prefixed chat commands into the pipeline. The Data API
// key grants read-only access, so unlike the Twitch adapter this one never
// replies in chat; acknowledgements surface in the logs and metrics instead.
package youtube
