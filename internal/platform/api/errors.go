package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired signals a 401 on an authenticated call. By the time a
// caller sees it the session has already been cleared; the only recovery is
// logging in again.
var ErrSessionExpired = errors.New("session expired, log in again")

// Error is a non-2xx response carrying the parsed body so callers can branch
// on backend-supplied messages.
type Error struct {
	Status  int
	Message string
	Body    map[string]interface{}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func newError(status int, body []byte) *Error {
	e := &Error{Status: status}
	if len(body) == 0 {
		return e
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return e
	}
	e.Body = parsed
	// The backend reports errors as {"error": ...} or {"detail": ...}.
	if msg, ok := parsed["error"].(string); ok && msg != "" {
		e.Message = msg
	} else if msg, ok := parsed["detail"].(string); ok && msg != "" {
		e.Message = msg
	}
	return e
}
