package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/flixx/internal/watchlist"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
//
// mountID ties a message to the view lifetime that issued the command.
type Msg struct {
	kind    MsgKind
	mountID string
	data    any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgWatchlistLoaded MsgKind = iota
	MsgMovieRemoved
	MsgImageOpened
)

type loadedData struct {
	result watchlist.Result
	err    error
}

type removedData struct {
	movieID string
	err     error
}

type openedData struct {
	url string
	err error
}

// watchlistLoadedMsg is the constructor for [MsgWatchlistLoaded]
func watchlistLoadedMsg(mountID string, res watchlist.Result, err error) Msg {
	return Msg{kind: MsgWatchlistLoaded, mountID: mountID, data: loadedData{res, err}}
}

// movieRemovedMsg is the constructor for [MsgMovieRemoved]
func movieRemovedMsg(mountID, movieID string, err error) Msg {
	return Msg{kind: MsgMovieRemoved, mountID: mountID, data: removedData{movieID, err}}
}

// imageOpenedMsg is the constructor for [MsgImageOpened]
func imageOpenedMsg(mountID, url string, err error) Msg {
	return Msg{kind: MsgImageOpened, mountID: mountID, data: openedData{url, err}}
}
