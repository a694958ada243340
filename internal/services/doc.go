// Package services implements the HTTP client side of the watchlist API.
//
// # Transport
//
// [APIService] sends raw requests under a base URL and returns an [APIResponse] with the status,
// headers, body and (when the body parses) decoded JSON. Bearer credentials are attached by
// [oauth2.Transport] around a [oauth2.StaticTokenSource]; the session token is opaque and never refreshed.
//
// # Watchlist Client
//
// [WatchlistService] maps the endpoints onto typed calls:
//   - [WatchlistService.Watchlist] : reference records for a user
//   - [WatchlistService.Movies] : batched resolution of movie ids
//   - [WatchlistService.Remove] : delete one entry
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or undecodable body
//   - [shared.ErrEntryNotFound] : delete answered 404
//   - [shared.ErrMissingArgument] : empty movie id or id list
package services
