// internal/adapters/session/store.go

// Package session persists the logged-in identity and credential on disk,
// under two fixed file names cleared together on logout or 401.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/ports"
)

// Fixed storage keys
const (
	tokenFile    = "sweet_shop_token"
	identityFile = "sweet_shop_user.json"
)

// Store is a file-backed session store
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// Statically assert that *Store implements the SessionStore port.
var _ ports.SessionStore = (*Store)(nil)

// NewStore creates a store rooted at dir. An empty dir falls back to a
// "sweetshop" directory under the user config directory.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "sweetshop")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With(slog.String("adapter", "session")),
		now:    time.Now,
	}, nil
}

// Save persists the credential and identity together
func (s *Store) Save(sess *domain.Session) error {
	if sess == nil || sess.Token == "" {
		return fmt.Errorf("session has no credential")
	}
	identity, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(sess.Token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, identityFile), identity, 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

// Load reads the persisted session. It returns nil, nil when no session is
// stored, when either half of the pair is missing, or when the credential
// has already expired; the stale remainder is cleared in all three cases.
func (s *Store) Load() (*domain.Session, error) {
	rawToken, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, fs.ErrNotExist) {
		_ = s.Clear()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	rawIdentity, err := os.ReadFile(filepath.Join(s.dir, identityFile))
	if errors.Is(err, fs.ErrNotExist) {
		_ = s.Clear()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}

	token := strings.TrimSpace(string(rawToken))
	if tokenExpired(token, s.now()) {
		s.logger.Debug("persisted credential expired, clearing session")
		_ = s.Clear()
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal(rawIdentity, &user); err != nil {
		_ = s.Clear()
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &domain.Session{Token: token, User: user}, nil
}

// Clear removes both halves of the persisted session
func (s *Store) Clear() error {
	for _, name := range []string{tokenFile, identityFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

// tokenExpired inspects the JWT exp claim without verifying the signature;
// verification stays with the server. Tokens that do not parse as JWTs or
// carry no exp claim are kept.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
