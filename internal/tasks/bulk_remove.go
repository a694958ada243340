package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	"github.com/desertthunder/flixx/internal/watchlist"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// BulkRemoveOpts contains configuration for bulk removals.
type BulkRemoveOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// RemoveResult is the outcome for a single movie.
type RemoveResult struct {
	MovieID string                  `json:"movie_id"`
	Outcome watchlist.RemoveOutcome `json:"-"`
	Status  string                  `json:"status"`
	Error   error                   `json:"-"`
	Message string                  `json:"error,omitempty"`
}

// BulkRemoveResult summarizes a bulk removal. Results follow input order.
type BulkRemoveResult struct {
	Total         int            `json:"total"`
	Removed       int            `json:"removed"`
	AlreadyAbsent int            `json:"already_absent"`
	Failed        int            `json:"failed"`
	Results       []RemoveResult `json:"results"`
}

type removeJob struct {
	index   int
	movieID string
}

type indexedResult struct {
	index  int
	result RemoveResult
}

// BulkRemove removes ids from the current user's watchlist with a worker pool.
//
// The session is resolved once; without one, nothing is sent. Duplicate and blank ids are dropped.
// A not-found response counts as already absent, not as a failure.
// If ctx is cancelled, ids that were never sent are reported as failed and the context error is returned.
func (e *WatchlistEngine) BulkRemove(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	ids []string,
	opts BulkRemoveOpts,
) (*BulkRemoveResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: watchlist client not initialized", shared.ErrServiceUnavailable)
	}

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one movie id is required", shared.ErrMissingArgument)
	}

	creds, err := session.Resolve(e.provider)
	if err != nil {
		return nil, err
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan removeJob, len(ids))
	results := make(chan indexedResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.removeWorker(ctx, &wg, creds, jobs, results)
	}

	go func() {
		defer close(jobs)
		e.sendProgress(progress, removingUpdate(len(ids)))
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- removeJob{index: i, movieID: id}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &BulkRemoveResult{Total: len(ids), Results: make([]RemoveResult, len(ids))}
	done := make([]bool, len(ids))
	completed := 0
	for res := range results {
		completed++
		summary.Results[res.index] = res.result
		done[res.index] = true
		e.sendProgress(progress, removedUpdate(completed, len(ids), res.result))
	}

	for i, id := range ids {
		if !done[i] {
			summary.Results[i] = newRemoveResult(id, ctx.Err())
		}
	}

	for _, res := range summary.Results {
		switch res.Outcome {
		case watchlist.Removed:
			summary.Removed++
		case watchlist.AlreadyAbsent:
			summary.AlreadyAbsent++
		default:
			summary.Failed++
		}
	}

	return summary, ctx.Err()
}

// removeWorker is a worker goroutine that removes movies from the jobs channel.
func (e *WatchlistEngine) removeWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	creds session.Credentials,
	jobs <-chan removeJob,
	results chan<- indexedResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := e.client.Remove(ctx, creds, job.movieID)
		results <- indexedResult{index: job.index, result: newRemoveResult(job.movieID, err)}
	}
}

func newRemoveResult(movieID string, err error) RemoveResult {
	res := RemoveResult{MovieID: movieID, Outcome: watchlist.Removed, Error: err}
	switch {
	case err == nil:
	case watchlist.IsAlreadyAbsent(err):
		res.Outcome = watchlist.AlreadyAbsent
		res.Error = nil
	default:
		res.Outcome = watchlist.RemoveFailed
		res.Message = err.Error()
	}
	res.Status = res.Outcome.String()
	return res
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
