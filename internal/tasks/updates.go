package tasks

import (
	"fmt"

	"github.com/desertthunder/flixx/internal/watchlist"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchWatchlist Phase = iota
	ResolveMovies
	RemoveEntries
)

func (p Phase) String() string {
	switch p {
	case FetchWatchlist:
		return "fetch_watchlist"
	case ResolveMovies:
		return "resolve_movies"
	case RemoveEntries:
		return "remove_entries"
	default:
		return ""
	}
}

func fetchWatchlistUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWatchlist,
		Step:    1,
		Total:   1,
		Message: "Fetching watchlist...",
	}
}

func resolvedMoviesUpdate(res watchlist.Result) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveMovies,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolved %d of %d entries", len(res.Movies), len(res.Entries)),
		Data:    res,
	}
}

func removingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveEntries,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Removing %d movies...", total),
	}
}

func removedUpdate(step, total int, res RemoveResult) ProgressUpdate {
	var msg string
	switch res.Outcome {
	case watchlist.Removed:
		msg = fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.MovieID)
	case watchlist.AlreadyAbsent:
		msg = fmt.Sprintf("[%d/%d] - %s (already absent)", step, total, res.MovieID)
	default:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.MovieID, res.Error)
	}
	return ProgressUpdate{
		Phase:   RemoveEntries,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}
