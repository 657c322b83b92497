// Package session exchanges normalized credentials for a live platform
// session. Deliberately stateless: no cache, no retry, no backoff. Every
// call pays one full remote login, which keeps concurrent callers isolated
// and stale-session bugs impossible.
package session

import (
	"context"

	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

// AuthError reports a remote login rejection. The platform-supplied reason
// is preserved verbatim through Unwrap.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "platform login failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Establisher performs stateless platform logins.
type Establisher struct {
	client platform.Client
}

func NewEstablisher(client platform.Client) *Establisher {
	return &Establisher{client: client}
}

// Establish performs a single full login and returns the resulting session.
// The session belongs to the caller, who must Close it when done.
func (e *Establisher) Establish(ctx context.Context, creds platform.Credentials) (platform.Session, error) {
	sess, err := e.client.Login(ctx, creds)
	if err != nil {
		logger.ErrorCF("session", "Login rejected", map[string]any{
			"imei":  creds.IMEI,
			"error": err.Error(),
		})
		return nil, &AuthError{Err: err}
	}
	return sess, nil
}
