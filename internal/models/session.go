package models

import (
	"fmt"
	"strings"
	"time"
)

var _ Model = (*Session)(nil)

// Session is a stored bearer credential together with the user it belongs to.
type Session struct {
	id        string
	token     string
	userID    string
	username  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSession creates an unsaved session; the repository assigns its ID.
func NewSession(token, userID, username string) *Session {
	now := time.Now()
	return &Session{
		token:     strings.TrimSpace(token),
		userID:    strings.TrimSpace(userID),
		username:  strings.TrimSpace(username),
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Token() string         { return s.token }
func (s *Session) UserID() string        { return s.userID }
func (s *Session) Username() string      { return s.username }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Session) DeletedAt() *time.Time { return s.deletedAt }

func (s *Session) SetID(id string)           { s.id = id }
func (s *Session) SetToken(token string)     { s.token = strings.TrimSpace(token) }
func (s *Session) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Session) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *Session) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// User returns the identity half of the session.
func (s *Session) User() User {
	return User{ID: s.userID, Username: s.username}
}

// Validate requires both a token and a user id.
func (s *Session) Validate() error {
	if s.token == "" {
		return fmt.Errorf("session token is required")
	}
	if s.userID == "" {
		return fmt.Errorf("session user id is required")
	}
	return nil
}
