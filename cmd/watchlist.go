package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/flixx/internal/formatter"
	"github.com/desertthunder/flixx/internal/shared"
	"github.com/desertthunder/flixx/internal/tasks"
	"github.com/desertthunder/flixx/internal/watchlist"
	"github.com/urfave/cli/v3"
)

const loginHint = "Run 'flixx auth login' or 'flixx auth import' first."

// WatchlistList fetches the watchlist once and renders it.
//
// Text output follows the view: an error message, the empty state, or numbered cards.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	pretty := cmd.Bool("pretty")
	outputPath := cmd.String("output")
	images := cmd.Bool("images")

	if images && (outputPath == "" || (format != formatter.FormatMarkdown && format != "md")) {
		return fmt.Errorf("%w: --images requires --format markdown and an --output directory", shared.ErrInvalidArgument)
	}

	var state watchlist.State
	state.Mount()
	res, err := r.engine.Fetch(ctx, nil)
	state.ApplyLoad(res, err)

	if state.Screen() == watchlist.ScreenError {
		r.logger.Error("failed to fetch watchlist", "error", err)
		r.writePlain("%s\n", state.Err)
		if errors.Is(err, shared.ErrNotAuthenticated) {
			r.writePlain("%s\n", loginHint)
		}
		return err
	}

	r.logger.Info("watchlist fetched", "entries", len(state.Entries), "movies", len(state.Movies))

	switch {
	case images:
		result, err := formatter.WriteMarkdownExport(ctx, r.httpClient, state.Movies, outputPath)
		if err != nil {
			return err
		}
		for id, skipErr := range result.Skipped {
			r.logger.Warn("image not downloaded", "movie", id, "error", skipErr)
		}
		return r.writePlain("✓ Exported %d movies to %s (%d files)\n", len(state.Movies), result.Directory, len(result.Files))

	case outputPath != "":
		if err := formatter.WriteExport(state.Movies, format, pretty, outputPath); err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d movies to %s\n", len(state.Movies), outputPath)

	case format == formatter.FormatText || format == "txt":
		if state.Screen() == watchlist.ScreenEmpty {
			return r.writePlain("%s\n", watchlist.MsgEmpty)
		}
		r.writePlainHeader(watchlist.MsgWatchlistTitle)
		data, err := formatter.ExportToText(state.Movies)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)

	default:
		data, err := formatter.Export(state.Movies, format, pretty)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", strings.TrimRight(string(data), "\n"))
	}
}

// WatchlistRemove removes the movies named on the command line.
//
// A single id goes through [watchlist.Remove]; several run as a rate-limited bulk task.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one movie id is required", shared.ErrMissingArgument)
	}

	if len(ids) == 1 {
		return r.removeOne(ctx, ids[0], cmd.Bool("json"))
	}

	opts := tasks.BulkRemoveOpts{
		NumWorkers: r.config.Bulk.Workers,
		RateLimit:  r.config.Bulk.RateLimit,
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}

	return r.removeMany(ctx, ids, opts, cmd.Bool("json"))
}

func (r *Runner) removeOne(ctx context.Context, id string, asJSON bool) error {
	var state watchlist.State
	err := watchlist.Remove(ctx, r.provider(), r.client, id)
	outcome := state.ApplyRemove(id, err)

	r.logger.Info("remove finished", "movie", id, "outcome", outcome)

	if asJSON {
		res := tasks.BulkRemoveResult{Total: 1}
		entry := tasks.RemoveResult{MovieID: id, Outcome: outcome, Status: outcome.String()}
		switch outcome {
		case watchlist.Removed:
			res.Removed = 1
		case watchlist.AlreadyAbsent:
			res.AlreadyAbsent = 1
		default:
			res.Failed = 1
			entry.Message = state.Err
		}
		res.Results = []tasks.RemoveResult{entry}
		if err := r.writeJSON(res, true); err != nil {
			return err
		}
		if outcome == watchlist.RemoveFailed {
			return err
		}
		return nil
	}

	switch outcome {
	case watchlist.Removed:
		return r.writePlain("✓ Removed %s\n", id)
	case watchlist.AlreadyAbsent:
		return r.writePlain("- %s was already absent\n", id)
	default:
		r.logger.Error("failed to remove from watchlist", "movie", id, "error", err)
		r.writePlain("%s\n", state.Err)
		if errors.Is(err, shared.ErrNotAuthenticated) {
			r.writePlain("%s\n", loginHint)
		}
		return err
	}
}

func (r *Runner) removeMany(ctx context.Context, ids []string, opts tasks.BulkRemoveOpts, asJSON bool) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if asJSON {
				r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkRemove(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if result == nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			r.writePlain("%s\n%s\n", watchlist.MsgLoginToRemove, loginHint)
		}
		return err
	}

	if asJSON {
		if werr := r.writeJSON(result, true); werr != nil {
			return werr
		}
	} else {
		r.writePlain("\n")
		r.writePlainHeader("Removal Complete")
		r.writePlain("Removed: %d\n", result.Removed)
		r.writePlain("Already absent: %d\n", result.AlreadyAbsent)
		r.writePlain("Failed: %d\n", result.Failed)
		if result.Failed > 0 {
			r.writePlain("\n%s\n", watchlist.MsgRemoveFailed)
		}
	}

	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%w: %d of %d removals failed", shared.ErrAPIRequest, result.Failed, result.Total)
	}
	return nil
}
