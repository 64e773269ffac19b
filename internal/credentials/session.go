package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/domain"
)

// SessionName is the cookie session holding the browser's credential.
const SessionName = "wastewise-credential"

const (
	sessionKeyToken = "token"
	sessionKeyUser  = "user"
)

// SessionStore keeps the credential in the encrypted cookie session of one
// echo request. Create one per request.
type SessionStore struct {
	c echo.Context
}

// NewSessionStore binds a store to the request behind c.
func NewSessionStore(c echo.Context) *SessionStore {
	return &SessionStore{c: c}
}

// Get implements Store.
func (s *SessionStore) Get(ctx context.Context) (domain.Credential, bool) {
	sess, err := session.Get(SessionName, s.c)
	if err != nil {
		return domain.Credential{}, false
	}
	token, _ := sess.Values[sessionKeyToken].(string)
	cred := domain.Credential{Token: token}
	if !cred.Valid() {
		return domain.Credential{}, false
	}
	if raw, ok := sess.Values[sessionKeyUser].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &cred.User); err != nil {
			// Keep the token; protected pages re-fetch the profile.
			slog.WarnContext(ctx, "Discarding unreadable stored profile", "error", err)
			cred.User = domain.Profile{}
		}
	}
	return cred, true
}

// Set implements Store.
func (s *SessionStore) Set(ctx context.Context, cred domain.Credential) error {
	sess, err := session.Get(SessionName, s.c)
	if err != nil {
		return fmt.Errorf("load credential session: %w", err)
	}
	user, err := json.Marshal(cred.User)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	sess.Values[sessionKeyToken] = cred.Token
	sess.Values[sessionKeyUser] = string(user)
	if err := sess.Save(s.c.Request(), s.c.Response()); err != nil {
		return fmt.Errorf("save credential session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *SessionStore) Clear(ctx context.Context) error {
	sess, err := session.Get(SessionName, s.c)
	if err != nil {
		return fmt.Errorf("load credential session: %w", err)
	}
	delete(sess.Values, sessionKeyToken)
	delete(sess.Values, sessionKeyUser)
	if err := sess.Save(s.c.Request(), s.c.Response()); err != nil {
		return fmt.Errorf("save credential session: %w", err)
	}
	return nil
}
