package watchlist

import (
	"errors"
	"slices"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/shared"
)

// Screen is what the view should draw.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenError
	ScreenEmpty
	ScreenCards
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenError:
		return "error"
	case ScreenEmpty:
		return "empty"
	case ScreenCards:
		return "cards"
	default:
		return "unknown"
	}
}

// RemoveOutcome classifies an applied removal.
type RemoveOutcome int

const (
	Removed RemoveOutcome = iota
	AlreadyAbsent
	RemoveFailed
)

func (o RemoveOutcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case AlreadyAbsent:
		return "already absent"
	case RemoveFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the watchlist view's state.
type State struct {
	Movies  []models.Movie
	Entries []models.WatchlistEntry
	Loading bool
	Err     string
}

// Mount resets the state for a fresh fetch.
func (s *State) Mount() {
	*s = State{Movies: []models.Movie{}, Loading: true}
}

// ApplyLoad records the outcome of the mount fetch and clears Loading.
func (s *State) ApplyLoad(res Result, err error) {
	s.Loading = false

	switch {
	case err == nil:
		s.Movies = res.Movies
		s.Entries = res.Entries
		if s.Movies == nil {
			s.Movies = []models.Movie{}
		}
	case errors.Is(err, shared.ErrNotAuthenticated):
		s.Err = MsgLoginToView
	default:
		s.Err = MsgFetchFailed
	}
}

// ApplyRemove records the outcome of one removal.
//
// Success and not-found both drop movieID from Movies and Entries; the server has confirmed it is gone.
// Any other failure leaves the lists untouched and sets a message.
func (s *State) ApplyRemove(movieID string, err error) RemoveOutcome {
	outcome := Removed
	switch {
	case err == nil:
	case IsAlreadyAbsent(err):
		outcome = AlreadyAbsent
	case errors.Is(err, shared.ErrNotAuthenticated):
		s.Err = MsgLoginToRemove
		return RemoveFailed
	default:
		s.Err = MsgRemoveFailed
		return RemoveFailed
	}

	s.Movies = slices.DeleteFunc(slices.Clone(s.Movies), func(m models.Movie) bool { return m.ID == movieID })
	s.Entries = slices.DeleteFunc(slices.Clone(s.Entries), func(e models.WatchlistEntry) bool { return e.MovieID == movieID })
	return outcome
}

// Screen is the render contract: loading wins, then an error, then the empty state, then cards.
func (s State) Screen() Screen {
	switch {
	case s.Loading:
		return ScreenLoading
	case s.Err != "":
		return ScreenError
	case len(s.Movies) == 0:
		return ScreenEmpty
	default:
		return ScreenCards
	}
}

// Contains reports whether movieID is displayed.
func (s State) Contains(movieID string) bool {
	return slices.ContainsFunc(s.Movies, func(m models.Movie) bool { return m.ID == movieID })
}
