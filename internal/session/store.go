package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/shared"
)

// SessionRepository is the persistence the [Store] needs.
type SessionRepository interface {
	Create(s *models.Session) error
	Active() (*models.Session, error)
	DeleteAll() (int64, error)
}

// Store is a [Provider] backed by the sessions table.
//
// Each read goes to the database so a login from another process is picked up.
type Store struct {
	repo   SessionRepository
	logger *log.Logger
}

// NewStore wraps repo. A nil logger discards lookup failures.
func NewStore(repo SessionRepository, logger *log.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Token implements [Provider].
func (s *Store) Token() (string, bool) {
	sess := s.active()
	if sess == nil || sess.Token() == "" {
		return "", false
	}
	return sess.Token(), true
}

// CurrentUser implements [Provider].
func (s *Store) CurrentUser() (models.User, bool) {
	sess := s.active()
	if sess == nil || sess.UserID() == "" {
		return models.User{}, false
	}
	return sess.User(), true
}

// Login replaces any stored session with a new one.
func (s *Store) Login(token, userID, username string) (*models.Session, error) {
	sess := models.NewSession(token, userID, username)
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCredentials, err)
	}

	if _, err := s.repo.DeleteAll(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout removes every stored session and reports whether one existed.
func (s *Store) Logout() (bool, error) {
	n, err := s.repo.DeleteAll()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Current returns the active session or [shared.ErrNotAuthenticated].
func (s *Store) Current() (*models.Session, error) {
	sess, err := s.repo.Active()
	if errors.Is(err, shared.ErrSessionNotFound) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) active() *models.Session {
	sess, err := s.repo.Active()
	if err != nil {
		if !errors.Is(err, shared.ErrSessionNotFound) && s.logger != nil {
			s.logger.Error("failed to read session", "error", err)
		}
		return nil
	}
	return sess
}
