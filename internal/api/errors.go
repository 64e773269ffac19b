package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetwork marks a transport failure: the backend was unreachable, the
	// connection broke, or the circuit breaker refused the call.
	ErrNetwork = errors.New("backend unreachable")

	// ErrUnauthorized marks a 401 or 403 response. Callers clear the stored
	// credential and send the user to sign in.
	ErrUnauthorized = errors.New("backend rejected credential")

	// ErrRejected marks any other non-2xx response.
	ErrRejected = errors.New("backend rejected request")
)

// NetworkMessage is shown whenever a call fails with ErrNetwork.
const NetworkMessage = "Unable to reach the server. Please check your connection and try again."

// RejectedError is a non-2xx response from the backend. The raw "error" and
// "message" body fields are kept so each flow can apply its own priority.
type RejectedError struct {
	Status       int
	Method       string
	Path         string
	ErrorField   string
	MessageField string
}

func (e *RejectedError) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap lets callers test the class with errors.Is.
func (e *RejectedError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return ErrRejected
}

// Message returns the server message preferring "error" over "message".
func (e *RejectedError) Message() string {
	if e.ErrorField != "" {
		return e.ErrorField
	}
	return e.MessageField
}

// MessagePreferringMessage returns the server message preferring "message"
// over "error".
func (e *RejectedError) MessagePreferringMessage() string {
	if e.MessageField != "" {
		return e.MessageField
	}
	return e.ErrorField
}

// DecodeError is a 2xx response whose body does not match the expected shape.
type DecodeError struct {
	Method string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode response: %v", e.Method, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errorBody covers the error shapes the backend produces: flat
// {"error": "...", "message": "..."} and nested {"error": {"message": "..."}}.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// parseRejected builds a RejectedError from a non-2xx response body.
func parseRejected(status int, method, path string, body []byte) *RejectedError {
	rej := &RejectedError{Status: status, Method: method, Path: path}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		// Plain-text bodies are surfaced as the error text.
		if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
			rej.ErrorField = truncate(text, 300)
		}
		return rej
	}
	rej.MessageField = strings.TrimSpace(eb.Message)

	if len(eb.Error) > 0 {
		var flat string
		if err := json.Unmarshal(eb.Error, &flat); err == nil {
			rej.ErrorField = strings.TrimSpace(flat)
		} else {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(eb.Error, &nested); err == nil {
				rej.ErrorField = strings.TrimSpace(nested.Message)
			}
		}
	}
	return rej
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// MessageFrom returns the server message of err, preferring "error" over
// "message", or fallback when err carries none.
func MessageFrom(err error, fallback string) string {
	if errors.Is(err, ErrNetwork) {
		return NetworkMessage
	}
	var rej *RejectedError
	if errors.As(err, &rej) {
		if msg := rej.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}
