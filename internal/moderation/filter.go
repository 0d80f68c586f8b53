package moderation

import (
	"net/url"
	"regexp"
	"strings"
)

// RedactionMarker replaces every disallowed URL in filtered text.
const RedactionMarker = "[URL REMOVED]"

// urlPattern matches http/https URLs permissively: the scheme followed by a
// run of unreserved or percent-encoded characters. The $-_ range covers the
// path, query, and fragment punctuation.
var urlPattern = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*(),]|%[0-9a-fA-F]{2})+`)

// Filter scans text for URLs and redacts those whose host is not allowed by
// the policy. It returns the filtered text and whether anything was redacted.
// Moderators bypass filtering entirely, as does a policy with URL blocking
// disabled. A URL whose host cannot be parsed is redacted (fail-closed).
func Filter(text string, isModerator bool, policy Policy) (string, bool) {
	if !policy.BlockURLs || isModerator {
		return text, false
	}

	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return text, false
	}

	filtered := text
	wasFiltered := false
	for _, match := range matches {
		if urlAllowed(match, policy) {
			continue
		}
		filtered = strings.ReplaceAll(filtered, match, RedactionMarker)
		wasFiltered = true
	}
	return filtered, wasFiltered
}

func urlAllowed(rawURL string, policy Policy) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		return false
	}
	return policy.hostAllowed(host)
}
