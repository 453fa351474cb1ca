// Package identity resolves which credential an outgoing request carries.
// The wizard can hold several tokens at once when the user traversed more
// than one entry path; precedence lives here and nowhere else.
package identity

import "github.com/fiabamia/fiaba/internal/session"

// Resolve picks the bearer token for a request, highest precedence first:
// an inbound link token, the magic-link token, the book-access token, the
// registered auth token, then the legacy fallback token stored outside the
// session blob. Returns ok=false when the request should go out
// unauthenticated; the guest-session header still identifies the caller.
func Resolve(sess *session.Session, inboundToken, fallbackToken string) (string, bool) {
	if inboundToken != "" {
		return inboundToken, true
	}
	if sess != nil {
		if sess.MagicLinkToken != "" {
			return sess.MagicLinkToken, true
		}
		if sess.BookAccessToken != "" {
			return sess.BookAccessToken, true
		}
		if sess.AuthToken != "" {
			return sess.AuthToken, true
		}
	}
	if fallbackToken != "" {
		return fallbackToken, true
	}
	return "", false
}

// Header formats the Authorization header value for a resolved token.
func Header(token string) string {
	return "Bearer " + token
}
