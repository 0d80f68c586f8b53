package twitch

import (
	"strconv"
	"strings"
)

// ircMessage is one parsed line of the IRCv3 protocol as Twitch speaks it:
// optional @tags, optional :prefix, a command, middle params, and an
// optional trailing text param.
type ircMessage struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
	Text    string
}

func parseIRCLine(line string) ircMessage {
	msg := ircMessage{Tags: map[string]string{}}
	rest := strings.TrimSuffix(line, "\r")

	if strings.HasPrefix(rest, "@") {
		rawTags, remainder, ok := strings.Cut(rest[1:], " ")
		if !ok {
			return msg
		}
		for _, pair := range strings.Split(rawTags, ";") {
			key, value, _ := strings.Cut(pair, "=")
			msg.Tags[key] = unescapeTagValue(value)
		}
		rest = remainder
	}

	if strings.HasPrefix(rest, ":") {
		prefix, remainder, ok := strings.Cut(rest[1:], " ")
		if !ok {
			return msg
		}
		msg.Prefix = prefix
		rest = remainder
	}

	if before, trailing, ok := strings.Cut(rest, " :"); ok {
		msg.Text = trailing
		rest = before
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return msg
	}
	msg.Command = fields[0]
	msg.Params = fields[1:]
	return msg
}

// unescapeTagValue reverses the IRCv3 tag value escaping.
func unescapeTagValue(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		if value[i] != '\\' || i == len(value)-1 {
			b.WriteByte(value[i])
			continue
		}
		i++
		switch value[i] {
		case ':':
			b.WriteByte(';')
		case 's':
			b.WriteByte(' ')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// chatMessage is a PRIVMSG reduced to the fields the adapter cares about.
type chatMessage struct {
	Channel     string
	Author      string
	DisplayName string
	Text        string
	Bits        int
	IsModerator bool
}

// newChatMessage extracts a chatMessage from a parsed PRIVMSG line. The
// second return value is false for any other command.
func newChatMessage(msg ircMessage) (chatMessage, bool) {
	if msg.Command != "PRIVMSG" || len(msg.Params) == 0 {
		return chatMessage{}, false
	}

	cm := chatMessage{
		Channel:     strings.TrimPrefix(msg.Params[0], "#"),
		Text:        msg.Text,
		DisplayName: msg.Tags["display-name"],
	}

	if author, _, ok := strings.Cut(msg.Prefix, "!"); ok {
		cm.Author = author
	} else {
		cm.Author = msg.Prefix
	}

	if bits, err := strconv.Atoi(msg.Tags["bits"]); err == nil {
		cm.Bits = bits
	}

	badges := msg.Tags["badges"]
	cm.IsModerator = msg.Tags["mod"] == "1" ||
		strings.Contains(badges, "moderator/") ||
		strings.Contains(badges, "broadcaster/")

	return cm, true
}
