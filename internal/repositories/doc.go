// Package repositories implements SQLite persistence for locally stored entities.
//
// [SessionRepository] keeps the bearer credentials used against the watchlist API.
// Deletes are soft: rows get a deleted_at timestamp and are excluded from queries by default,
// so logging out leaves an audit trail of previous sessions.
package repositories
