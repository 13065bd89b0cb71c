package textutil

import "strings"

// SanitizeToken lowercases a free-form label (a source origin, a brand name)
// into a token safe for file names. Anything outside [a-z0-9_-] becomes an
// underscore; empty or fully-stripped input yields "unknown".
func SanitizeToken(value string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(value))
	mapped = strings.Trim(mapped, "_-")
	if mapped == "" {
		return "unknown"
	}
	return mapped
}
