// Package token validates and canonicalizes captured session tokens before
// they are handed to the platform client.
package token

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

// ErrInvalidToken is returned when a session token is missing its cookie or
// device IMEI. These are the only two fields a login cannot proceed without.
var ErrInvalidToken = errors.New("session token missing cookie or imei")

// DefaultUserAgent is used when the captured token carries no user agent.
// It matches the browser identity the session was typically captured under.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SessionToken is a caller-supplied credential bundle representing a
// previously captured authenticated session.
type SessionToken struct {
	Cookie    any    `json:"cookie"`
	IMEI      string `json:"imei"`
	UserAgent string `json:"userAgent,omitempty"`
}

// Normalize validates tok and returns login-ready credentials.
//
// A cookie that arrives as a string and looks like a JSON object (starts
// with "{" after trimming) is parsed into its structured form. Parse
// failures leave the string untouched: this is best-effort canonicalization,
// not schema validation, and malformed-but-non-object strings pass through
// unchanged. Normalize has no side effects.
func Normalize(tok SessionToken) (platform.Credentials, error) {
	if isEmptyCookie(tok.Cookie) || tok.IMEI == "" {
		return platform.Credentials{}, ErrInvalidToken
	}

	cookie := tok.Cookie
	if s, ok := cookie.(string); ok && strings.HasPrefix(strings.TrimSpace(s), "{") {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			cookie = parsed
		}
	}

	userAgent := tok.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return platform.Credentials{
		Cookie:    cookie,
		IMEI:      tok.IMEI,
		UserAgent: userAgent,
	}, nil
}

func isEmptyCookie(cookie any) bool {
	switch c := cookie.(type) {
	case nil:
		return true
	case string:
		return c == ""
	default:
		return false
	}
}
