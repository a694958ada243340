// Package tasks runs watchlist operations that take more than one request, with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Fetch] : Load the watchlist and resolve its movies
//     - Reports one update before the fetch and one with the resolved [watchlist.Result]
//
//  2. [Engine.BulkRemove] : Remove many movies at once
//     - Resolves the session once and fails fast when logged out
//     - Fans requests out to a worker pool gated by a [rate.Limiter]
//     - Reports each movie as removed, already absent or failed, in input order
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel.
// Updates use select with default so a slow reader drops updates instead of stalling the workers.
package tasks
