package watchlist

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/services"
	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	tu "github.com/desertthunder/flixx/internal/testing"
)

var loggedIn = session.Static{AccessToken: "t1", User: models.User{ID: "u1"}}

// stubClient records calls and returns canned data.
type stubClient struct {
	entries    []models.WatchlistEntry
	movies     []models.Movie
	watchErr   error
	moviesErr  error
	removeErr  error
	calls      []string
	resolveIDs []string
}

func (s *stubClient) Watchlist(_ context.Context, creds session.Credentials) ([]models.WatchlistEntry, error) {
	s.calls = append(s.calls, "watchlist:"+creds.UserID)
	return s.entries, s.watchErr
}

func (s *stubClient) Movies(_ context.Context, _ session.Credentials, ids []string) ([]models.Movie, error) {
	s.calls = append(s.calls, "movies")
	s.resolveIDs = ids
	return s.movies, s.moviesErr
}

func (s *stubClient) Remove(_ context.Context, creds session.Credentials, movieID string) error {
	s.calls = append(s.calls, fmt.Sprintf("remove:%s/%s", movieID, creds.UserID))
	return s.removeErr
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing session makes no calls", func(t *testing.T) {
		providers := map[string]session.Provider{
			"nil":           nil,
			"logged out":    session.Static{},
			"no user id":    session.Static{AccessToken: "t1"},
			"no token":      session.Static{User: models.User{ID: "u1"}},
			"blank user id": session.Static{AccessToken: "t1", User: models.User{Username: "ana"}},
		}

		for name, p := range providers {
			t.Run(name, func(t *testing.T) {
				client := &stubClient{}
				_, err := Load(ctx, p, client)
				if !errors.Is(err, shared.ErrNotAuthenticated) {
					t.Errorf("expected ErrNotAuthenticated, got %v", err)
				}
				if len(client.calls) != 0 {
					t.Errorf("expected no calls, got %v", client.calls)
				}
			})
		}
	})

	t.Run("empty watchlist skips resolution", func(t *testing.T) {
		client := &stubClient{entries: []models.WatchlistEntry{}}

		res, err := Load(ctx, loggedIn, client)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Movies == nil || len(res.Movies) != 0 {
			t.Errorf("expected empty, non-nil movies, got %#v", res.Movies)
		}
		if !reflect.DeepEqual(client.calls, []string{"watchlist:u1"}) {
			t.Errorf("unexpected calls: %v", client.calls)
		}
	})

	t.Run("resolves references in watchlist order", func(t *testing.T) {
		client := &stubClient{
			entries: []models.WatchlistEntry{{MovieID: "m2"}, {MovieID: "m1"}, {MovieID: "m2"}},
			movies:  []models.Movie{{ID: "m1", Title: "A"}, {ID: "m2", Title: "B"}, {ID: "m9", Title: "Stray"}},
		}

		res, err := Load(ctx, loggedIn, client)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(client.resolveIDs, []string{"m2", "m1"}) {
			t.Errorf("expected de-duplicated ids in order, got %v", client.resolveIDs)
		}
		if got := titles(res.Movies); !reflect.DeepEqual(got, []string{"B", "A"}) {
			t.Errorf("expected [B A], got %v", got)
		}
		if len(res.Entries) != 3 {
			t.Errorf("expected raw entries to be kept, got %d", len(res.Entries))
		}
	})

	t.Run("watchlist failure", func(t *testing.T) {
		client := &stubClient{watchErr: shared.ErrAPIRequest}
		if _, err := Load(ctx, loggedIn, client); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if len(client.calls) != 1 {
			t.Errorf("expected resolution to be skipped, got %v", client.calls)
		}
	})

	t.Run("resolution failure", func(t *testing.T) {
		client := &stubClient{
			entries:   []models.WatchlistEntry{{MovieID: "m1"}},
			moviesErr: shared.ErrAPIRequest,
		}
		if _, err := Load(ctx, loggedIn, client); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestLoadOverHTTP(t *testing.T) {
	api := tu.NewFakeAPI(t, "t1")
	api.Add("u1", models.Movie{ID: "m1", Title: "A"}, models.Movie{ID: "m2", Title: "B"})
	client := services.NewWatchlistService(services.NewAPIService(api.URL(), nil))

	res, err := Load(context.Background(), loggedIn, client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := api.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected exactly 2 requests, got %d: %+v", len(calls), calls)
	}
	if calls[0].Path != "/watchlist/u1" || calls[1].Path != "/movies" || calls[1].IDs != "m1,m2" {
		t.Errorf("unexpected requests: %+v", calls)
	}
	for _, c := range calls {
		if c.Authorization != "Bearer t1" {
			t.Errorf("expected bearer credential on %s, got %q", c.Path, c.Authorization)
		}
	}

	// the fake answers in reverse order; the join restores watchlist order
	if got := titles(res.Movies); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", got)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("missing session makes no calls", func(t *testing.T) {
		client := &stubClient{}
		if err := Remove(ctx, session.Static{}, client, "m1"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if len(client.calls) != 0 {
			t.Errorf("expected no calls, got %v", client.calls)
		}
	})

	t.Run("scoped to movie and user", func(t *testing.T) {
		client := &stubClient{}
		if err := Remove(ctx, loggedIn, client, "m1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(client.calls, []string{"remove:m1/u1"}) {
			t.Errorf("unexpected calls: %v", client.calls)
		}
	})

	t.Run("not found is recognizable", func(t *testing.T) {
		client := &stubClient{removeErr: fmt.Errorf("%w: m1", shared.ErrEntryNotFound)}
		err := Remove(ctx, loggedIn, client, "m1")
		if !IsAlreadyAbsent(err) {
			t.Errorf("expected already-absent error, got %v", err)
		}
	})
}

func TestJoin(t *testing.T) {
	movies := []models.Movie{{ID: "m3", Title: "C"}, {ID: "m1", Title: "A"}, {ID: "m1", Title: "A-dup"}}

	got := Join([]string{"m1", "m2", "m3"}, movies)
	if !reflect.DeepEqual(titles(got), []string{"A", "C"}) {
		t.Errorf("Join() = %v", titles(got))
	}

	if got := Join(nil, movies); len(got) != 0 {
		t.Errorf("expected nothing to join, got %v", got)
	}
}

func titles(movies []models.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}
