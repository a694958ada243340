// Package watchlist holds the presentation logic of the watchlist view, independent of any renderer.
//
// # Flow
//
// [Load] resolves the session, reads the user's reference records and, when there are any,
// resolves them into movies with one batched request. The join keeps watchlist order and drops
// anything the watchlist did not reference.
//
// [Remove] deletes one entry. A not-found answer comes back as [shared.ErrEntryNotFound] for the
// caller to treat as benign.
//
// # State
//
// [State] is the view's state container. It is owned by a single event loop: the loop applies
// results with [State.ApplyLoad] and [State.ApplyRemove], which translate errors into the fixed
// user-facing messages. [State.Screen] is the render contract.
package watchlist
