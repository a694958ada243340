// Package ui implements the interactive watchlist view using bubbletea's Elm architecture.
//
// A [Model] is one mounted WatchlistView. On [Model.Init] it fetches the logged-in user's watchlist
// exactly once, then renders one of four screens chosen by [watchlist.State.Screen]:
// a spinner while loading, an error message, the empty state, or a list of movie cards.
//
// Every command result carries the mount id of the lifetime that issued it.
// Results from an earlier mount, or that arrive after [Model.Close], are dropped without touching state.
//
// Keys: d/x/delete remove the selected card, o opens its image, r reloads, q quits.
package ui
