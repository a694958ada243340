package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	"github.com/desertthunder/flixx/internal/watchlist"
)

// Options are the view's collaborators.
type Options struct {
	Provider session.Provider
	Client   watchlist.Client
	Logger   *log.Logger
	// OpenURL opens image links; defaults to [shared.OpenBrowser].
	OpenURL func(string) error
}

// Model is a mounted WatchlistView.
type Model struct {
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	opts    Options
	logger  *log.Logger
	mountID string
	fetched bool
	closed  bool
	state   watchlist.State
	pending map[string]bool
	status  string
	width   int
	height  int
	list    list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a view bound to ctx. Cancelling ctx has the same effect on requests as [Model.Close].
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	keys := newKeyMap()
	l := list.New(nil, cardDelegate(styles), 0, 0)
	l.Title = watchlist.MsgWatchlistTitle
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.remove, keys.open, keys.reload}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.heading.UnsetMarginBottom()

	m := &Model{
		parent:  ctx,
		opts:    opts,
		logger:  logger,
		list:    l,
		spinner: s,
		help:    help.New(),
		keys:    keys,
	}
	m.mount()
	return m
}

// Init starts the mount fetch and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the screen selected by the render contract.
func (m *Model) View() string {
	if m.closed {
		return ""
	}

	switch m.state.Screen() {
	case watchlist.ScreenLoading:
		return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), watchlist.MsgLoading, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	case watchlist.ScreenError:
		return fmt.Sprintf("%s\n\n%s", styles.failure.Render(m.state.Err), m.help.View(m.keys))
	case watchlist.ScreenEmpty:
		title := styles.heading.Render(watchlist.MsgWatchlistTitle)
		return fmt.Sprintf("%s\n%s\n\n%s", title, styles.muted.Render(watchlist.MsgEmpty), m.help.View(m.keys))
	default:
		if m.status == "" {
			return m.list.View()
		}
		return fmt.Sprintf("%s\n%s", m.list.View(), m.status)
	}
}

// Close tears the view down. In-flight requests are cancelled and their results ignored.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
	m.logger.Debug("watchlist view closed", "mount", m.mountID)
}

// Closed reports whether [Model.Close] has run.
func (m *Model) Closed() bool { return m.closed }

// State returns a copy of the view state.
func (m *Model) State() watchlist.State { return m.state }

// MountID identifies the current lifetime of the view.
func (m *Model) MountID() string { return m.mountID }

func (m *Model) mount() {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(m.parent)
	m.mountID = shared.GenerateID()
	m.fetched = false
	m.pending = map[string]bool{}
	m.status = ""
	m.state.Mount()
	m.list.SetItems(nil)
}

// fetch returns the mount fetch once per mount and nil afterwards.
func (m *Model) fetch() tea.Cmd {
	if m.fetched || m.closed {
		return nil
	}
	m.fetched = true

	ctx, mountID := m.ctx, m.mountID
	provider, client := m.opts.Provider, m.opts.Client
	m.logger.Debug("fetching watchlist", "mount", mountID)

	return func() tea.Msg {
		res, err := watchlist.Load(ctx, provider, client)
		return watchlistLoadedMsg(mountID, res, err)
	}
}

func (m *Model) remove(movie models.Movie) tea.Cmd {
	if m.pending[movie.ID] {
		return nil
	}
	m.pending[movie.ID] = true

	ctx, mountID := m.ctx, m.mountID
	provider, client := m.opts.Provider, m.opts.Client
	m.status = styles.muted.Render(fmt.Sprintf("Removing %s...", movie.Title))

	return func() tea.Msg {
		err := watchlist.Remove(ctx, provider, client, movie.ID)
		return movieRemovedMsg(mountID, movie.ID, err)
	}
}

func (m *Model) open(movie models.Movie) tea.Cmd {
	if movie.ImageURL == "" {
		m.status = styles.notice.Render(fmt.Sprintf("%s has no image", movie.Title))
		return nil
	}

	mountID, url, opener := m.mountID, movie.ImageURL, m.opts.OpenURL
	return func() tea.Msg {
		return imageOpenedMsg(mountID, url, opener(url))
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		m.Close()
		return m, tea.Quit
	}

	screen := m.state.Screen()
	if screen == watchlist.ScreenCards && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.reload) && screen != watchlist.ScreenLoading:
		m.mount()
		return m, tea.Batch(m.fetch(), m.spinner.Tick)
	case key.Matches(msg, m.keys.remove) && screen == watchlist.ScreenCards:
		if item, ok := m.list.SelectedItem().(movieItem); ok {
			return m, m.remove(item.movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.open) && screen == watchlist.ScreenCards:
		if item, ok := m.list.SelectedItem().(movieItem); ok {
			return m, m.open(item.movie)
		}
		return m, nil
	}

	if screen != watchlist.ScreenCards {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	if msg.mountID != m.mountID {
		m.logger.Debug("dropping stale result", "mount", msg.mountID, "current", m.mountID)
		return m, nil
	}

	switch msg.kind {
	case MsgWatchlistLoaded:
		data := msg.data.(loadedData)
		m.state.ApplyLoad(data.result, data.err)
		if data.err != nil {
			m.logger.Error("failed to fetch watchlist", "error", data.err)
			return m, nil
		}
		m.logger.Info("watchlist loaded", "entries", len(data.result.Entries), "movies", len(m.state.Movies))
		return m, m.list.SetItems(movieItems(m.state.Movies))

	case MsgMovieRemoved:
		data := msg.data.(removedData)
		delete(m.pending, data.movieID)

		switch m.state.ApplyRemove(data.movieID, data.err) {
		case watchlist.Removed:
			m.logger.Info("removed from watchlist", "movie", data.movieID)
			m.status = styles.removed.Render("Removed from watchlist")
		case watchlist.AlreadyAbsent:
			m.logger.Warn("movie was already absent from watchlist", "movie", data.movieID)
			m.status = ""
		default:
			m.logger.Error("failed to remove from watchlist", "movie", data.movieID, "error", data.err)
			return m, nil
		}
		return m, m.list.SetItems(movieItems(m.state.Movies))

	case MsgImageOpened:
		data := msg.data.(openedData)
		if data.err != nil {
			m.logger.Warn("failed to open image", "url", data.url, "error", data.err)
			m.status = styles.notice.Render("Could not open image")
		}
		return m, nil
	}

	return m, nil
}
