// Package models defines the domain entities of the flixx watchlist client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): decoded straight from the watchlist API
//   - [Movie] : Display metadata for a saved movie
//   - [WatchlistEntry] : A reference record naming a movie by id
//   - [User] : The identity half of a session
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Session] : Locally stored bearer credential and user identity
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
