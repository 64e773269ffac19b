package view

import (
	"encoding/json"
	"log/slog"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/wastewise/internal/domain"
)

const (
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
	flashKeyInfo     = "info"
	flashKeyForm     = "form"
	flashKeyPending  = "pending_registration"
)

// FlashData holds the one-shot banners for the next rendered page.
type FlashData struct {
	Success []string
	Error   []string
	Info    []string
}

// Empty reports whether there is nothing to show.
func (f FlashData) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0 && len(f.Info) == 0
}

// setFlash sets a flash message in the session.
func setFlash(c echo.Context, key, message string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "Flash session unavailable", "error", err)
		return
	}
	sess.AddFlash(message, key)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.ErrorContext(c.Request().Context(), "Failed to save flash session", "error", err)
	}
}

// SetFlashSuccess sets a success flash message.
func SetFlashSuccess(c echo.Context, message string) {
	setFlash(c, flashKeySuccess, message)
}

// SetFlashError sets an error flash message.
func SetFlashError(c echo.Context, message string) {
	setFlash(c, flashKeyError, message)
}

// SetFlashInfo sets an informational flash message.
func SetFlashInfo(c echo.Context, message string) {
	setFlash(c, flashKeyInfo, message)
}

// GetFlashData retrieves and clears the banner flashes from the session.
func GetFlashData(c echo.Context) FlashData {
	var data FlashData
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return data
	}

	data.Success = asStrings(sess.Flashes(flashKeySuccess))
	data.Error = asStrings(sess.Flashes(flashKeyError))
	data.Info = asStrings(sess.Flashes(flashKeyInfo))

	// Flashes() clears what it returns; persist the clearing.
	if !data.Empty() {
		_ = sess.Save(c.Request(), c.Response())
	}
	return data
}

func asStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// takeJSON pops the first flash under key and decodes it into out.
func takeJSON(c echo.Context, key string, out any) bool {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return false
	}
	flashes := sess.Flashes(key)
	if len(flashes) == 0 {
		return false
	}
	_ = sess.Save(c.Request(), c.Response())

	raw, ok := flashes[0].(string)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func setJSON(c echo.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "Failed to encode flash value", "key", key, "error", err)
		return
	}
	setFlash(c, key, string(raw))
}

// SetFormValues keeps the submitted form values for the page the client is
// redirected to. Passwords must not be included.
func SetFormValues(c echo.Context, values map[string]string) {
	setJSON(c, flashKeyForm, values)
}

// TakeFormValues returns and clears the values kept by SetFormValues. The
// map is never nil.
func TakeFormValues(c echo.Context) map[string]string {
	values := map[string]string{}
	takeJSON(c, flashKeyForm, &values)
	if values == nil {
		values = map[string]string{}
	}
	return values
}

// SetPendingRegistration hands a just-submitted sign-up to the OTP page.
func SetPendingRegistration(c echo.Context, pending domain.PendingRegistration) {
	setJSON(c, flashKeyPending, pending)
}

// TakePendingRegistration returns and clears the pending registration, or
// nil when the OTP page was reached without one.
func TakePendingRegistration(c echo.Context) *domain.PendingRegistration {
	var pending domain.PendingRegistration
	if !takeJSON(c, flashKeyPending, &pending) || pending.Email == "" {
		return nil
	}
	return &pending
}
