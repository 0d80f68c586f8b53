package twitch

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

const chatEndpoint = "wss://irc-ws.chat.twitch.tv:443"

// Conn is a minimal Twitch chat connection over WebSocket. It requests the
// tags and commands capabilities so PRIVMSG lines carry bits amounts and
// badge information.
type Conn struct {
	ws      *websocket.Conn
	pending []string
}

// DialChat connects to Twitch chat, authenticates, and joins the channel.
func DialChat(ctx context.Context, token, nick, channel string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, chatEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("twitch: dial chat: %w", err)
	}

	c := &Conn{ws: ws}
	for _, line := range []string{
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
		"PASS " + token,
		"NICK " + strings.ToLower(nick),
		"JOIN #" + strings.ToLower(channel),
	} {
		if err := c.SendRaw(line); err != nil {
			_ = ws.Close()
			return nil, fmt.Errorf("twitch: login: %w", err)
		}
	}
	return c, nil
}

// ReadLine returns the next IRC line. A single WebSocket frame may carry
// several lines; surplus lines are buffered.
func (c *Conn) ReadLine() (string, error) {
	for len(c.pending) == 0 {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		for _, line := range strings.Split(string(payload), "\r\n") {
			if line != "" {
				c.pending = append(c.pending, line)
			}
		}
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

// SendRaw writes one raw IRC line.
func (c *Conn) SendRaw(line string) error {
	return c.ws.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

// Say posts a chat message to the channel.
func (c *Conn) Say(channel, text string) error {
	return c.SendRaw(fmt.Sprintf("PRIVMSG #%s :%s", strings.ToLower(channel), text))
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
