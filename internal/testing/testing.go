// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/flixx/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Call is one request seen by [FakeAPI].
type Call struct {
	Method        string
	Path          string
	IDs           string // decoded ids query parameter
	Authorization string
}

// FakeAPI is an in-process watchlist backend.
//
// It serves the read, resolve and delete endpoints from in-memory data and records every request.
// Movies come back from the resolve endpoint in reverse request order so callers must join by id.
type FakeAPI struct {
	Token string // required bearer token; empty accepts anything

	mu           sync.Mutex
	entries      map[string][]models.WatchlistEntry
	movies       map[string]models.Movie
	statuses     map[string]int // route key -> forced status
	calls        []Call
	server       *httptest.Server
	beforeHandle func(r *http.Request)
}

// NewFakeAPI starts a server that is closed when the test ends.
func NewFakeAPI(t *testing.T, token string) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		Token:    token,
		entries:  make(map[string][]models.WatchlistEntry),
		movies:   make(map[string]models.Movie),
		statuses: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /watchlist/{userId}", f.handleWatchlist)
	mux.HandleFunc("GET /movies", f.handleMovies)
	mux.HandleFunc("DELETE /watchlist/{movieId}/{userId}", f.handleDelete)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			IDs:           r.URL.Query().Get("ids"),
			Authorization: r.Header.Get("Authorization"),
		})
		hook := f.beforeHandle
		f.mu.Unlock()

		if hook != nil {
			hook(r)
		}

		if f.Token != "" && r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	return f
}

// URL is the base URL to hand to the client.
func (f *FakeAPI) URL() string { return f.server.URL }

// Add saves movies to userID's watchlist and makes them resolvable.
func (f *FakeAPI) Add(userID string, movies ...models.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range movies {
		f.movies[m.ID] = m
		f.entries[userID] = append(f.entries[userID], models.WatchlistEntry{MovieID: m.ID})
	}
}

// FailWith forces a status for a route: "watchlist", "movies" or "delete:{movieId}".
func (f *FakeAPI) FailWith(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[route] = status
}

// BeforeHandle runs hook on every request before it is served, after it is recorded.
func (f *FakeAPI) BeforeHandle(hook func(r *http.Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beforeHandle = hook
}

// Calls returns a copy of the recorded requests.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Saved returns the movie ids currently in userID's watchlist.
func (f *FakeAPI) Saved(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.MovieIDs(f.entries[userID])
}

func (f *FakeAPI) forced(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[route]
}

func (f *FakeAPI) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	if status := f.forced("watchlist"); status != 0 {
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		return
	}

	f.mu.Lock()
	entries := slices.Clone(f.entries[r.PathValue("userId")])
	f.mu.Unlock()

	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (f *FakeAPI) handleMovies(w http.ResponseWriter, r *http.Request) {
	if status := f.forced("movies"); status != 0 {
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		return
	}

	ids := strings.Split(r.URL.Query().Get("ids"), ",")

	f.mu.Lock()
	movies := make([]models.Movie, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if m, ok := f.movies[ids[i]]; ok {
			movies = append(movies, m)
		}
	}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, movies)
}

func (f *FakeAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	movieID, userID := r.PathValue("movieId"), r.PathValue("userId")
	if status := f.forced("delete:" + movieID); status != 0 {
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		return
	}

	f.mu.Lock()
	entries := f.entries[userID]
	idx := slices.IndexFunc(entries, func(e models.WatchlistEntry) bool { return e.MovieID == movieID })
	if idx >= 0 {
		f.entries[userID] = slices.Delete(slices.Clone(entries), idx, idx+1)
	}
	f.mu.Unlock()

	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Movie not found in watchlist"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Movie removed from watchlist"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
