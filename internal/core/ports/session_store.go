// internal/core/ports/session_store.go
package ports

import "github.com/candyline/sweetshop/internal/core/domain"

// SessionStore defines the persistence port for the logged-in session.
// This interface is implemented by the file adapter.
//
// There is a single writer (login/logout); everything else only reads. The
// credential and identity are persisted together and cleared together.
type SessionStore interface {
	Save(session *domain.Session) error
	// Load returns nil, nil when no session is persisted or the persisted
	// credential has expired.
	Load() (*domain.Session, error)
	Clear() error
}
