package watchlist

import (
	"context"
	"errors"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
)

// User-facing messages. Error details never reach the screen.
const (
	MsgLoginToView    = "Please log in to view your watchlist."
	MsgLoginToRemove  = "Please log in to remove movies from your watchlist."
	MsgFetchFailed    = "Error fetching watchlist. Please try again later."
	MsgRemoveFailed   = "Error removing from watchlist. Please try again later."
	MsgEmpty          = "No movies found in your watchlist"
	MsgLoading        = "Loading..."
	MsgWatchlistTitle = "My Watchlist"
)

// Client is the slice of the API the view needs.
type Client interface {
	Watchlist(ctx context.Context, creds session.Credentials) ([]models.WatchlistEntry, error)
	Movies(ctx context.Context, creds session.Credentials, ids []string) ([]models.Movie, error)
	Remove(ctx context.Context, creds session.Credentials, movieID string) error
}

// Remover deletes single entries; [Client] satisfies it.
type Remover interface {
	Remove(ctx context.Context, creds session.Credentials, movieID string) error
}

// Result is a completed fetch.
type Result struct {
	Entries []models.WatchlistEntry
	Movies  []models.Movie
}

// Load fetches and resolves the current user's watchlist.
//
// Without a complete session it returns [shared.ErrNotAuthenticated] before any request.
// An empty watchlist is a successful, empty [Result] and costs one request.
func Load(ctx context.Context, p session.Provider, c Client) (Result, error) {
	creds, err := session.Resolve(p)
	if err != nil {
		return Result{}, err
	}

	entries, err := c.Watchlist(ctx, creds)
	if err != nil {
		return Result{}, err
	}

	ids := models.MovieIDs(entries)
	if len(ids) == 0 {
		return Result{Entries: []models.WatchlistEntry{}, Movies: []models.Movie{}}, nil
	}

	movies, err := c.Movies(ctx, creds, ids)
	if err != nil {
		return Result{}, err
	}

	return Result{Entries: entries, Movies: Join(ids, movies)}, nil
}

// Join orders movies by ids and drops movies not in ids. Ids the backend could not resolve are skipped.
func Join(ids []string, movies []models.Movie) []models.Movie {
	byID := make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		if _, dup := byID[m.ID]; !dup {
			byID[m.ID] = m
		}
	}

	joined := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			joined = append(joined, m)
		}
	}
	return joined
}

// Remove deletes movieID from the current user's watchlist.
//
// Without a complete session it returns [shared.ErrNotAuthenticated] and sends nothing.
func Remove(ctx context.Context, p session.Provider, r Remover, movieID string) error {
	creds, err := session.Resolve(p)
	if err != nil {
		return err
	}
	return r.Remove(ctx, creds, movieID)
}

// IsAlreadyAbsent reports whether a removal failed only because the entry was gone.
func IsAlreadyAbsent(err error) bool {
	return errors.Is(err, shared.ErrEntryNotFound)
}
