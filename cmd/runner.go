package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flixx/internal/models"
	"github.com/desertthunder/flixx/internal/services"
	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	"github.com/desertthunder/flixx/internal/tasks"
	"github.com/desertthunder/flixx/internal/watchlist"
	"github.com/urfave/cli/v3"
)

// SessionStore is the persisted login used by auth commands and every watchlist operation.
type SessionStore interface {
	session.Provider
	Login(token, userID, username string) (*models.Session, error)
	Logout() (bool, error)
	Current() (*models.Session, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	client     watchlist.Client
	store      SessionStore
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.WatchlistEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Client     watchlist.Client // defaults to a [services.WatchlistService] over API
	Store      SessionStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Client == nil && opts.API != nil {
		opts.Client = services.NewWatchlistService(opts.API)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		client:     opts.Client,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.engine = tasks.NewWatchlistEngine(r.provider(), r.client)
	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// provider returns the store as a [session.Provider], or nil when there is no store.
func (r *Runner) provider() session.Provider {
	if r.store == nil {
		return nil
	}
	return r.store
}

func (r *Runner) requireStore() error {
	if r.store == nil {
		return fmt.Errorf("%w: session store not initialized (run 'flixx setup database')", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, watchlistCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
