// internal/core/domain/notice.go
package domain

import "time"

// Severity classifies a transient notice
type Severity string

// Severity constants
const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is a short-lived status message shown after an action. It carries
// its own expiry; holders sweep expired notices instead of running a timer
// per message.
type Notice struct {
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the notice should no longer be shown
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
