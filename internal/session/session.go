// Package session exposes the current credential and identity to the rest of the client.
//
// Consumers depend on the narrow, read-only [Provider] capability; where the credentials come from
// (a flag, the SQLite store, a test fixture) stays behind it.
package session

import (
	"fmt"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/shared"
)

// Provider supplies the current bearer token and user, or reports their absence.
type Provider interface {
	Token() (string, bool)
	CurrentUser() (models.User, bool)
}

// Credentials is a resolved session: both halves are present.
type Credentials struct {
	Token  string
	UserID string
}

// Resolve reads both halves from p.
//
// A nil provider, a missing token or a user without an id yields [shared.ErrNotAuthenticated].
func Resolve(p Provider) (Credentials, error) {
	if p == nil {
		return Credentials{}, shared.ErrNotAuthenticated
	}

	token, ok := p.Token()
	if !ok || token == "" {
		return Credentials{}, fmt.Errorf("%w: no token", shared.ErrNotAuthenticated)
	}

	user, ok := p.CurrentUser()
	if !ok || user.ID == "" {
		return Credentials{}, fmt.Errorf("%w: no user id", shared.ErrNotAuthenticated)
	}

	return Credentials{Token: token, UserID: user.ID}, nil
}

// Static is a fixed [Provider]. The zero value is a logged-out session.
type Static struct {
	AccessToken string
	User        models.User
}

// Token implements [Provider].
func (s Static) Token() (string, bool) { return s.AccessToken, s.AccessToken != "" }

// CurrentUser implements [Provider].
func (s Static) CurrentUser() (models.User, bool) { return s.User, s.User.ID != "" }
