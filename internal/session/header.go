package session

import (
	"net/url"
	"strings"
)

const (
	KeySessionID = "sessionId"
	KeyUserID    = "userId"
)

// Values is a parsed `key=value; key=value` header.
type Values map[string]string

// Get returns the value for key, or "" when absent.
func (v Values) Get(key string) string {
	return v[key]
}

// ParseHeader splits raw on ';' into key/value pairs. Whitespace around
// pairs and keys is ignored, the value is everything after the first '='
// and is URL-decoded when possible. The first occurrence of a key wins.
// Malformed pairs are skipped; it never fails.
func ParseHeader(raw string) Values {
	values := make(Values)

	for _, pair := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, seen := values[key]; seen {
			continue
		}

		value = strings.TrimSpace(value)
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		values[key] = value
	}

	return values
}

// Extract returns the value stored under key in raw, or "" if absent.
func Extract(key, raw string) string {
	return ParseHeader(raw).Get(key)
}

// Credentials are the session coordinates a client presents.
type Credentials struct {
	SessionID string
	UserID    string
}

// CredentialsFromHeader parses raw once and picks out the session fields.
func CredentialsFromHeader(raw string) Credentials {
	v := ParseHeader(raw)
	return Credentials{
		SessionID: v.Get(KeySessionID),
		UserID:    v.Get(KeyUserID),
	}
}
