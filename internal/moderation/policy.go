package moderation

import "strings"

// Policy is the moderation configuration, loaded once at startup and
// immutable for the process lifetime.
type Policy struct {
	// BlockURLs enables URL filtering. When false, Filter is a no-op.
	BlockURLs bool
	// AllowedDomains lists hosts that may appear in command text. A host
	// matches an entry when it equals the entry or is a subdomain of it.
	AllowedDomains []string
	// Moderators is the static allowlist of sender names that bypass
	// filtering, in addition to platform-native moderator roles.
	Moderators []string
}

// IsListedModerator reports whether the given sender name is on the static
// moderator allowlist. Matching is case-insensitive.
func (p Policy) IsListedModerator(name string) bool {
	for _, mod := range p.Moderators {
		if strings.EqualFold(mod, name) {
			return true
		}
	}
	return false
}

func (p Policy) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range p.AllowedDomains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
