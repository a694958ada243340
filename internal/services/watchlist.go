// Watchlist API client
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
)

// WatchlistService talks to the three watchlist endpoints:
//
//	GET    /watchlist/{userId}
//	GET    /movies?ids=a,b,c
//	DELETE /watchlist/{movieId}/{userId}
type WatchlistService struct {
	api *APIService
}

// NewWatchlistService creates a client on top of api.
func NewWatchlistService(api *APIService) *WatchlistService {
	return &WatchlistService{api: api}
}

// Watchlist fetches the reference records saved by the user.
func (w *WatchlistService) Watchlist(ctx context.Context, creds session.Credentials) ([]models.WatchlistEntry, error) {
	path := "/watchlist/" + url.PathEscape(creds.UserID)

	resp, err := w.api.Get(ctx, path, creds.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, statusError(http.MethodGet, path, resp)
	}

	var entries []models.WatchlistEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode watchlist: %v", shared.ErrAPIRequest, err)
	}
	return entries, nil
}

// Movies resolves ids into movie records with a single batched request.
func (w *WatchlistService) Movies(ctx context.Context, creds session.Credentials, ids []string) ([]models.Movie, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no movie IDs provided", shared.ErrMissingArgument)
	}

	path := "/movies?" + url.Values{"ids": {strings.Join(ids, ",")}}.Encode()

	resp, err := w.api.Get(ctx, path, creds.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, statusError(http.MethodGet, "/movies", resp)
	}

	var movies []models.Movie
	if err := json.Unmarshal(resp.Body, &movies); err != nil {
		return nil, fmt.Errorf("%w: failed to decode movies: %v", shared.ErrAPIRequest, err)
	}
	return movies, nil
}

// Remove deletes one movie from the user's watchlist.
//
// A 404 is reported as [shared.ErrEntryNotFound] so callers can treat it as already done.
func (w *WatchlistService) Remove(ctx context.Context, creds session.Credentials, movieID string) error {
	if movieID == "" {
		return fmt.Errorf("%w: movie ID", shared.ErrMissingArgument)
	}

	path := "/watchlist/" + url.PathEscape(movieID) + "/" + url.PathEscape(creds.UserID)

	resp, err := w.api.Delete(ctx, path, creds.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	switch {
	case resp.OK():
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrEntryNotFound, movieID)
	default:
		return statusError(http.MethodDelete, path, resp)
	}
}

func statusError(method, path string, resp *APIResponse) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		detail = body.Message
		if detail == "" {
			detail = body.Error
		}
	}

	if detail != "" {
		return fmt.Errorf("%w: %s %s: status %d: %s", shared.ErrAPIRequest, method, path, resp.StatusCode, detail)
	}
	return fmt.Errorf("%w: %s %s: status %d", shared.ErrAPIRequest, method, path, resp.StatusCode)
}
