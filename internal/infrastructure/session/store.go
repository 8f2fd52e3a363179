// Package session keeps the single authenticated session of the console and persists it
// between restarts.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
)

// Store is the explicit session store. Every component reads the token through it.
type Store struct {
	mu      sync.RWMutex
	current *entity.Session
	repo    repository.SessionRepository
	logger  *slog.Logger
	now     func() time.Time
	onClear []func()
}

// NewStore creates the store and restores a persisted, unexpired session
func NewStore(repo repository.SessionRepository, logger *slog.Logger) *Store {
	s := &Store{repo: repo, logger: logger, now: time.Now}

	persisted, err := repo.Load()
	switch {
	case err != nil:
		logger.Warn("discarding unreadable session file", "error", err)
		_ = repo.Clear()
	case persisted != nil && persisted.IsExpired(s.now()):
		logger.Info("persisted session expired", "user", persisted.User.Email)
		_ = repo.Clear()
	case persisted != nil:
		s.current = persisted
		logger.Info("session restored", "user", persisted.User.Email, "role", persisted.User.Role)
	}
	return s
}

// Get returns a copy of the current session. An expired session is cleared and reported
// as absent.
func (s *Store) Get() (*entity.Session, bool) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current == nil {
		return nil, false
	}
	if current.IsExpired(s.now()) {
		s.logger.Info("session expired", "user", current.User.Email)
		_ = s.Clear()
		return nil, false
	}
	cp := *current
	return &cp, true
}

// Set replaces the session and persists it. Replacing the session of another user runs
// the clear hooks, the same as a logout followed by a login.
func (s *Store) Set(session *entity.Session) error {
	cp := *session

	s.mu.Lock()
	prev := s.current
	s.current = &cp
	hooks := append([]func(){}, s.onClear...)
	s.mu.Unlock()

	if prev != nil && prev.User.ID != cp.User.ID {
		s.logger.Info("operator changed", "from", prev.User.Email, "to", cp.User.Email)
		for _, fn := range hooks {
			fn()
		}
	}
	return s.repo.Save(&cp)
}

// Clear drops the session and runs the clear hooks
func (s *Store) Clear() error {
	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	hooks := append([]func(){}, s.onClear...)
	s.mu.Unlock()

	err := s.repo.Clear()
	if had {
		for _, fn := range hooks {
			fn()
		}
	}
	return err
}

// ForceLogout is the callback the backend client runs on a 401
func (s *Store) ForceLogout() {
	s.logger.Warn("session rejected by backend, logging out")
	if err := s.Clear(); err != nil {
		s.logger.Error("failed to remove session file", "error", err)
	}
}

// OnClear registers fn to run whenever an existing session is cleared
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	s.onClear = append(s.onClear, fn)
	s.mu.Unlock()
}
