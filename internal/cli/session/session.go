// Package session holds who is logged in and with what bearer token, persisted through
// a storage.KeyValue so a later run sees the same session without logging in again.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storerate/storerate/internal/cli/storage"
)

// Persisted keys
const (
	TokenKey    = "token"
	IdentityKey = "user"
)

// ErrNoSession is returned by operations that need an active session
var ErrNoSession = errors.New("no active session")

// errNothingPersisted means neither key exists, which is a normal logged-out start.
var errNothingPersisted = errors.New("nothing persisted")

// errStorageUnavailable means the backend failed to read, e.g. a locked keyring.
var errStorageUnavailable = errors.New("session storage unavailable")

// State is a point-in-time copy of the session
type State struct {
	Identity *Identity
	Token    string
	Loading  bool
}

// Authenticated reports whether the state carries a usable identity and token
func (s State) Authenticated() bool {
	return !s.Loading && s.Identity != nil && s.Token != ""
}

// Role returns the identity's role, or "" when unauthenticated
func (s State) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Store is the single source of truth for the current session. It starts in the
// loading state until Restore runs.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KeyValue
	logger   zerolog.Logger
	identity *Identity
	token    string
	loading  bool
}

// NewStore creates a store backed by kv. Call Restore before reading it.
func NewStore(kv storage.KeyValue, logger zerolog.Logger) *Store {
	return &Store{
		kv:      kv,
		logger:  logger.With().Str("component", "session").Logger(),
		loading: true,
	}
}

// Restore rebuilds the session from storage. Persisted sessions are trusted without a
// server round-trip; a revoked token is only noticed on the next 401. Missing,
// partial or malformed data yields an empty session and the stale keys are purged; a
// backend that cannot be read yields an empty session and keeps the keys.
// Loading is always false afterwards.
func (s *Store) Restore() State {
	identity, token, err := s.readPersisted()

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.identity, s.token = nil, ""
	} else {
		s.identity, s.token = identity, token
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	switch {
	case err == nil, errors.Is(err, errNothingPersisted):
	case errors.Is(err, errStorageUnavailable):
		s.logger.Warn().Err(err).Msg("Session storage unreadable, continuing logged out")
	default:
		s.logger.Warn().Err(err).Msg("Discarding unusable persisted session")
		s.purge()
	}
	if st.Authenticated() {
		s.logger.Debug().Str("user_id", st.Identity.ID).Str("role", string(st.Identity.Role)).Msg("Session restored")
	}
	return st
}

func (s *Store) readPersisted() (*Identity, string, error) {
	token, tokenErr := s.kv.Get(TokenKey)
	rawIdentity, identityErr := s.kv.Get(IdentityKey)

	if errors.Is(tokenErr, storage.ErrNotFound) && errors.Is(identityErr, storage.ErrNotFound) {
		return nil, "", errNothingPersisted
	}
	for _, readErr := range []error{tokenErr, identityErr} {
		if readErr != nil && !errors.Is(readErr, storage.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %w", errStorageUnavailable, readErr)
		}
	}
	if tokenErr != nil {
		return nil, "", fmt.Errorf("token: %w", tokenErr)
	}
	if identityErr != nil {
		return nil, "", fmt.Errorf("identity: %w", identityErr)
	}
	if token == "" {
		return nil, "", fmt.Errorf("token: empty")
	}

	var identity Identity
	if err := json.Unmarshal([]byte(rawIdentity), &identity); err != nil {
		return nil, "", fmt.Errorf("identity: %w", err)
	}
	if err := identity.validate(); err != nil {
		return nil, "", err
	}
	return &identity, token, nil
}

func (s *Store) purge() {
	for _, key := range []string{TokenKey, IdentityKey} {
		if err := s.kv.Delete(key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to purge persisted session key")
		}
	}
}

// Set persists a new session and makes it current. Only called after a successful
// login or signup. On a storage failure nothing is changed.
func (s *Store) Set(identity Identity, token string) error {
	if token == "" {
		return fmt.Errorf("refusing to store an empty token")
	}
	if err := identity.validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err := s.kv.Set(IdentityKey, string(raw)); err != nil {
		_ = s.kv.Delete(TokenKey)
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.identity = &identity
	s.token = token
	s.loading = false
	return nil
}

// Clear removes the persisted session and empties the in-memory one. It is
// idempotent; memory is reset even if storage fails.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.token = ""
	s.loading = false

	var errs []error
	for _, key := range []string{TokenKey, IdentityKey} {
		if err := s.kv.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}

// UpdateIdentity merges profile changes into the current identity without touching
// the token or the role.
func (s *Store) UpdateIdentity(u IdentityUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil || s.token == "" {
		return ErrNoSession
	}

	next := *s.identity
	if u.Name != "" {
		next.Name = u.Name
	}
	if u.Email != "" {
		next.Email = u.Email
	}
	if next == *s.identity {
		return nil
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := s.kv.Set(IdentityKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}
	s.identity = &next
	return nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Token returns the current bearer token, or "" when there is none
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) snapshotLocked() State {
	st := State{Token: s.token, Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
	}
	return st
}
