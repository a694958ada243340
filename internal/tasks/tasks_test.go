package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/services"
	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	tu "github.com/desertthunder/flixx/internal/testing"
	"github.com/desertthunder/flixx/internal/watchlist"
)

var loggedIn = session.Static{AccessToken: "t1", User: models.User{ID: "u1"}}

type mockClient struct {
	mu       sync.Mutex
	entries  []models.WatchlistEntry
	movies   []models.Movie
	fetchErr error
	failures map[string]error
	removed  []string
	delay    time.Duration
}

func (m *mockClient) Watchlist(context.Context, session.Credentials) ([]models.WatchlistEntry, error) {
	return m.entries, m.fetchErr
}

func (m *mockClient) Movies(context.Context, session.Credentials, []string) ([]models.Movie, error) {
	return m.movies, nil
}

func (m *mockClient) Remove(ctx context.Context, _ session.Credentials, id string) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	return m.failures[id]
}

func (m *mockClient) removedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.removed)
}

func TestFetch(t *testing.T) {
	t.Run("reports progress", func(t *testing.T) {
		client := &mockClient{
			entries: []models.WatchlistEntry{{MovieID: "m1"}},
			movies:  []models.Movie{{ID: "m1", Title: "Alien"}},
		}
		progress := make(chan ProgressUpdate, 10)

		res, err := NewWatchlistEngine(loggedIn, client).Fetch(context.Background(), progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Movies) != 1 {
			t.Errorf("expected 1 movie, got %d", len(res.Movies))
		}

		close(progress)
		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 2 || phases[0] != FetchWatchlist || phases[1] != ResolveMovies {
			t.Errorf("unexpected phases %v", phases)
		}
	})

	t.Run("not authenticated", func(t *testing.T) {
		_, err := NewWatchlistEngine(session.Static{}, &mockClient{}).Fetch(context.Background(), nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := NewWatchlistEngine(loggedIn, nil).Fetch(context.Background(), nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestBulkRemove(t *testing.T) {
	ctx := context.Background()
	fast := BulkRemoveOpts{RateLimit: 1000}

	t.Run("classifies outcomes in input order", func(t *testing.T) {
		client := &mockClient{failures: map[string]error{
			"m2": fmt.Errorf("%w: m2", shared.ErrEntryNotFound),
			"m3": fmt.Errorf("%w: status 500", shared.ErrAPIRequest),
		}}

		res, err := NewWatchlistEngine(loggedIn, client).BulkRemove(ctx, nil, []string{"m1", "m2", "m3", "m4"}, fast)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Total != 4 || res.Removed != 2 || res.AlreadyAbsent != 1 || res.Failed != 1 {
			t.Errorf("unexpected summary %+v", res)
		}

		want := []struct {
			id      string
			outcome watchlist.RemoveOutcome
		}{{"m1", watchlist.Removed}, {"m2", watchlist.AlreadyAbsent}, {"m3", watchlist.RemoveFailed}, {"m4", watchlist.Removed}}
		for i, w := range want {
			got := res.Results[i]
			if got.MovieID != w.id || got.Outcome != w.outcome {
				t.Errorf("result %d = %s/%v, want %s/%v", i, got.MovieID, got.Outcome, w.id, w.outcome)
			}
		}
		if res.Results[1].Error != nil {
			t.Error("already absent should not carry an error")
		}
		if res.Results[2].Message == "" || res.Results[2].Status != "failed" {
			t.Errorf("expected failure details, got %+v", res.Results[2])
		}
	})

	t.Run("drops duplicates and blanks", func(t *testing.T) {
		client := &mockClient{}
		res, err := NewWatchlistEngine(loggedIn, client).BulkRemove(ctx, nil, []string{"m1", " m1 ", "", "m2", "m1"}, fast)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Total != 2 || client.removedCount() != 2 {
			t.Errorf("expected 2 removals, got total=%d sent=%d", res.Total, client.removedCount())
		}
	})

	t.Run("no ids", func(t *testing.T) {
		_, err := NewWatchlistEngine(loggedIn, &mockClient{}).BulkRemove(ctx, nil, []string{" "}, fast)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("not authenticated sends nothing", func(t *testing.T) {
		client := &mockClient{}
		_, err := NewWatchlistEngine(session.Static{}, client).BulkRemove(ctx, nil, []string{"m1"}, fast)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if client.removedCount() != 0 {
			t.Errorf("expected no requests, got %d", client.removedCount())
		}
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := NewWatchlistEngine(loggedIn, nil).BulkRemove(ctx, nil, []string{"m1"}, fast)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("progress updates", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 20)
		_, err := NewWatchlistEngine(loggedIn, &mockClient{}).BulkRemove(ctx, progress, []string{"m1", "m2", "m3"}, fast)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		var last ProgressUpdate
		count := 0
		for u := range progress {
			if u.Phase != RemoveEntries {
				t.Errorf("unexpected phase %v", u.Phase)
			}
			last = u
			count++
		}
		if count != 4 {
			t.Errorf("expected start plus 3 updates, got %d", count)
		}
		if last.Step != 3 || last.Total != 3 {
			t.Errorf("expected final update 3/3, got %d/%d", last.Step, last.Total)
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		done := make(chan struct{})
		go func() {
			defer close(done)
			NewWatchlistEngine(loggedIn, &mockClient{}).BulkRemove(ctx, progress, []string{"m1", "m2"}, fast)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("BulkRemove blocked on progress channel")
		}
	})

	t.Run("rate limiting", func(t *testing.T) {
		start := time.Now()
		_, err := NewWatchlistEngine(loggedIn, &mockClient{}).BulkRemove(ctx, nil, []string{"m1", "m2", "m3"}, BulkRemoveOpts{RateLimit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// burst of 1 at 10/s: the third request waits roughly 200ms
		if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
			t.Errorf("expected rate limiting, finished in %v", elapsed)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		client := &mockClient{delay: 50 * time.Millisecond}

		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		ids := []string{"m1", "m2", "m3", "m4", "m5"}
		res, err := NewWatchlistEngine(loggedIn, client).BulkRemove(cctx, nil, ids, BulkRemoveOpts{NumWorkers: 1, RateLimit: 1})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if res == nil || len(res.Results) != len(ids) {
			t.Fatalf("expected a result for every id, got %+v", res)
		}
		if res.Failed == 0 {
			t.Error("expected unsent ids to be reported as failed")
		}
		for i, r := range res.Results {
			if r.MovieID != ids[i] {
				t.Errorf("result %d is %s, want %s", i, r.MovieID, ids[i])
			}
		}
	})

	t.Run("over HTTP", func(t *testing.T) {
		api := tu.NewFakeAPI(t, "t1")
		api.Add("u1", models.Movie{ID: "m1"}, models.Movie{ID: "m2"}, models.Movie{ID: "m3"})
		client := services.NewWatchlistService(services.NewAPIService(api.URL(), nil))

		res, err := NewWatchlistEngine(loggedIn, client).BulkRemove(ctx, nil, []string{"m1", "m3", "m9"}, fast)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Removed != 2 || res.AlreadyAbsent != 1 || res.Failed != 0 {
			t.Errorf("unexpected summary %+v", res)
		}
		if saved := api.Saved("u1"); len(saved) != 1 || saved[0] != "m2" {
			t.Errorf("expected only m2 to remain, got %v", saved)
		}
	})
}

func TestBulkRemoveOptsLimits(t *testing.T) {
	tc := []struct {
		name    string
		workers int
	}{
		{"zero uses default", 0},
		{"negative uses default", -3},
		{"above max is capped", 50},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{}
			res, err := NewWatchlistEngine(loggedIn, client).BulkRemove(context.Background(), nil, []string{"m1", "m2"}, BulkRemoveOpts{NumWorkers: tt.workers, RateLimit: 1000})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Removed != 2 {
				t.Errorf("expected 2 removals, got %d", res.Removed)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	if FetchWatchlist.String() != "fetch_watchlist" || RemoveEntries.String() != "remove_entries" || Phase(99).String() != "" {
		t.Error("unexpected phase names")
	}
}
