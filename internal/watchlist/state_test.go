package watchlist

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/shared"
)

func loadedState(ids ...string) State {
	var s State
	s.Mount()
	res := Result{}
	for _, id := range ids {
		res.Movies = append(res.Movies, models.Movie{ID: id, Title: "Title " + id})
		res.Entries = append(res.Entries, models.WatchlistEntry{MovieID: id})
	}
	s.ApplyLoad(res, nil)
	return s
}

func TestState(t *testing.T) {
	t.Run("Mount", func(t *testing.T) {
		s := State{Err: "old", Movies: []models.Movie{{ID: "x"}}}
		s.Mount()

		if !s.Loading || s.Err != "" || len(s.Movies) != 0 {
			t.Errorf("expected a reset loading state, got %+v", s)
		}
		if s.Screen() != ScreenLoading {
			t.Errorf("expected loading screen, got %v", s.Screen())
		}
	})

	t.Run("ApplyLoad", func(t *testing.T) {
		tc := []struct {
			name    string
			res     Result
			err     error
			wantErr string
			screen  Screen
		}{
			{name: "not authenticated", err: shared.ErrNotAuthenticated, wantErr: MsgLoginToView, screen: ScreenError},
			{name: "request failed", err: fmt.Errorf("%w: status 500", shared.ErrAPIRequest), wantErr: MsgFetchFailed, screen: ScreenError},
			{name: "unexpected error", err: errors.New("boom"), wantErr: MsgFetchFailed, screen: ScreenError},
			{name: "empty", res: Result{}, screen: ScreenEmpty},
			{name: "movies", res: Result{Movies: []models.Movie{{ID: "m1"}}}, screen: ScreenCards},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				var s State
				s.Mount()
				s.ApplyLoad(tt.res, tt.err)

				if s.Loading {
					t.Error("expected loading to be cleared")
				}
				if s.Err != tt.wantErr {
					t.Errorf("Err = %q, want %q", s.Err, tt.wantErr)
				}
				if s.Screen() != tt.screen {
					t.Errorf("Screen() = %v, want %v", s.Screen(), tt.screen)
				}
				if s.Movies == nil {
					t.Error("movies should never be nil after a load")
				}
			})
		}
	})

	t.Run("ApplyRemove", func(t *testing.T) {
		t.Run("success drops the movie", func(t *testing.T) {
			s := loadedState("m1", "m2")

			if got := s.ApplyRemove("m1", nil); got != Removed {
				t.Errorf("outcome = %v, want removed", got)
			}
			if s.Contains("m1") || !s.Contains("m2") {
				t.Errorf("unexpected movies: %+v", s.Movies)
			}
			if len(s.Entries) != 1 || s.Entries[0].MovieID != "m2" {
				t.Errorf("unexpected entries: %+v", s.Entries)
			}
			if s.Err != "" {
				t.Errorf("expected no error, got %q", s.Err)
			}
		})

		t.Run("not found is silent", func(t *testing.T) {
			s := loadedState("m1", "m2")

			got := s.ApplyRemove("m1", fmt.Errorf("%w: m1", shared.ErrEntryNotFound))
			if got != AlreadyAbsent {
				t.Errorf("outcome = %v, want already absent", got)
			}
			if s.Err != "" {
				t.Errorf("expected no user-facing error, got %q", s.Err)
			}
			if !s.Contains("m2") {
				t.Error("other entries must be kept")
			}
		})

		t.Run("failure leaves movies unchanged", func(t *testing.T) {
			s := loadedState("m1", "m2")
			before := append([]models.Movie(nil), s.Movies...)

			if got := s.ApplyRemove("m1", shared.ErrAPIRequest); got != RemoveFailed {
				t.Errorf("outcome = %v, want failed", got)
			}
			if !reflect.DeepEqual(s.Movies, before) {
				t.Errorf("movies changed: %+v", s.Movies)
			}
			if s.Err != MsgRemoveFailed {
				t.Errorf("Err = %q, want %q", s.Err, MsgRemoveFailed)
			}
			if s.Screen() != ScreenError {
				t.Errorf("expected error screen, got %v", s.Screen())
			}
		})

		t.Run("not authenticated", func(t *testing.T) {
			s := loadedState("m1")
			s.ApplyRemove("m1", shared.ErrNotAuthenticated)
			if s.Err != MsgLoginToRemove {
				t.Errorf("Err = %q, want %q", s.Err, MsgLoginToRemove)
			}
			if !s.Contains("m1") {
				t.Error("movie must be kept")
			}
		})

		t.Run("does not alias the previous slice", func(t *testing.T) {
			s := loadedState("m1", "m2", "m3")
			before := s.Movies

			s.ApplyRemove("m1", nil)
			if before[0].ID != "m1" {
				t.Errorf("previous slice was mutated: %+v", before)
			}
		})

		t.Run("last removal empties the view", func(t *testing.T) {
			s := loadedState("m1")
			s.ApplyRemove("m1", nil)
			if s.Screen() != ScreenEmpty {
				t.Errorf("expected empty screen, got %v", s.Screen())
			}
		})
	})

	t.Run("Screen precedence", func(t *testing.T) {
		s := State{Loading: true, Err: "x", Movies: []models.Movie{{ID: "m1"}}}
		if s.Screen() != ScreenLoading {
			t.Errorf("loading should win, got %v", s.Screen())
		}
		s.Loading = false
		if s.Screen() != ScreenError {
			t.Errorf("error should win over cards, got %v", s.Screen())
		}
	})

	t.Run("Stringers", func(t *testing.T) {
		if ScreenCards.String() != "cards" || Screen(42).String() != "unknown" {
			t.Error("unexpected Screen strings")
		}
		if AlreadyAbsent.String() != "already absent" || RemoveOutcome(42).String() != "unknown" {
			t.Error("unexpected RemoveOutcome strings")
		}
	})
}
