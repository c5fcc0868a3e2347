// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports input rejected client-side, before any network
// call is made. The caller keeps the entered values so the user can correct
// and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// RemoteError is a normalized failure returned by the inventory API. Message
// carries the server-provided error body when one was present.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsValidation reports whether err is a client-side validation rejection
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsUnauthorized reports whether err is a 401 from the API. Receiving one is
// fatal to the session; the transport layer tears the persisted session down.
func IsUnauthorized(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr) && rerr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr) && rerr.StatusCode == http.StatusNotFound
}

// IsOutOfStock reports whether err is the server rejecting a purchase at
// zero stock
func IsOutOfStock(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr) && strings.Contains(strings.ToLower(rerr.Message), "out of stock")
}

// ServerMessage extracts the server-provided error message from err, or ""
// when the failure carried none (transport errors, empty bodies).
func ServerMessage(err error) string {
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		return rerr.Message
	}
	return ""
}
