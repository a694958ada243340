// package tasks implements long-running watchlist operations.
//
// The core abstraction is WatchlistEngine, which fetches the watchlist and removes entries in bulk.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	"github.com/desertthunder/flixx/internal/watchlist"
)

// Engine defines watchlist operations that report progress.
type Engine interface {
	// Fetch loads and resolves the current user's watchlist.
	Fetch(ctx context.Context, progress chan<- ProgressUpdate) (watchlist.Result, error)

	// BulkRemove removes several movies concurrently under a rate limit.
	BulkRemove(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkRemoveOpts) (*BulkRemoveResult, error)
}

// WatchlistEngine implements [Engine] on top of a session provider and a [watchlist.Client].
type WatchlistEngine struct {
	provider session.Provider
	client   watchlist.Client
}

var _ Engine = (*WatchlistEngine)(nil)

// NewWatchlistEngine creates a new WatchlistEngine.
func NewWatchlistEngine(provider session.Provider, client watchlist.Client) *WatchlistEngine {
	return &WatchlistEngine{provider: provider, client: client}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *WatchlistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Fetch runs [watchlist.Load] with progress reporting.
func (e *WatchlistEngine) Fetch(ctx context.Context, progress chan<- ProgressUpdate) (watchlist.Result, error) {
	if e.client == nil {
		return watchlist.Result{}, fmt.Errorf("%w: watchlist client not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchWatchlistUpdate())
	res, err := watchlist.Load(ctx, e.provider, e.client)
	if err != nil {
		return res, err
	}

	e.sendProgress(progress, resolvedMoviesUpdate(res))
	return res, nil
}
