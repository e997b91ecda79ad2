// Package app wires configuration, the session, the API clients and the
// services into one container shared by the CLI and the board.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/database"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/identity"
	apikeyservice "github.com/thenoetrevino/tablero/internal/services/apikey"
	columnservice "github.com/thenoetrevino/tablero/internal/services/column"
	projectservice "github.com/thenoetrevino/tablero/internal/services/project"
	taskservice "github.com/thenoetrevino/tablero/internal/services/task"
	teamservice "github.com/thenoetrevino/tablero/internal/services/team"
	worklogservice "github.com/thenoetrevino/tablero/internal/services/worklog"
	"github.com/thenoetrevino/tablero/internal/session"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Version is reported in the User-Agent header
var Version = "dev"

// App holds all application services and provides dependency injection
type App struct {
	Config   *config.Config
	Session  *session.Session
	API      *api.Client
	Identity *identity.Client
	Registry *prometheus.Registry

	// Events is nil when no daemon is reachable
	Events events.EventPublisher

	TeamService    teamservice.Service
	ProjectService projectservice.Service
	ColumnService  columnservice.Service
	TaskService    taskservice.Service
	WorklogService worklogservice.Service
	APIKeyService  apikeyservice.Service

	boardMetrics *board.Metrics
	closers      []io.Closer
}

// New creates the application container. Unless WithSessionStore is given
// the SQLite state database is opened and owned by the App.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var ac appConfig
	for _, opt := range opts {
		opt(&ac)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	a := &App{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		Events:   ac.eventClient,
	}

	store := ac.store
	if store == nil {
		path := ac.statePath
		if path == "" {
			var err error
			if path, err = database.DefaultPath(); err != nil {
				return nil, err
			}
		}
		db, err := database.InitDB(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open state database: %w", err)
		}
		a.closers = append(a.closers, db)
		store = database.NewSessionStore(db)
	}
	a.Session = session.New(store)

	apiOpts := []api.Option{api.WithMetrics(api.NewMetrics(a.Registry))}
	if ac.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(ac.httpClient))
	}
	a.API = api.NewClient(api.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.RequestTimeout,
		UserAgent: "tablero/" + Version,
	}, a.Session, apiOpts...)
	a.Identity = identity.NewClient(cfg.IdentityURL, ac.httpClient)
	a.boardMetrics = board.NewMetrics(a.Registry)

	a.TeamService = teamservice.NewService(a.API)
	a.ProjectService = projectservice.NewService(a.API, a.Events)
	a.ColumnService = columnservice.NewService(a.API, a.Events)
	a.TaskService = taskservice.NewService(a.API, a.Events)
	a.WorklogService = worklogservice.NewService(a.API, a.Events)
	a.APIKeyService = apikeyservice.NewService(a.API)

	return a, nil
}

// CurrentProject returns TABLERO_PROJECT when set, else the stored selection
func (a *App) CurrentProject(ctx context.Context) (types.ProjectID, error) {
	if a.Config.Project != "" {
		return types.ProjectID(a.Config.Project), nil
	}
	return a.Session.CurrentProject(ctx)
}

// NewBoard creates a coordinator for projectID that records into the App's
// registry
func (a *App) NewBoard(projectID types.ProjectID, opts ...board.Option) *board.Coordinator {
	opts = append([]board.Option{board.WithMetrics(a.boardMetrics)}, opts...)
	return board.NewCoordinator(a.API, projectID, opts...)
}

// Close releases the event connection and the state database
func (a *App) Close() error {
	var firstErr error
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			firstErr = err
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// ConnectEvents dials the refresh daemon. It returns nil when the daemon is
// not running; commands then work without live refresh.
func ConnectEvents(ctx context.Context, socketPath string, opts ...events.ClientOption) events.EventPublisher {
	client := events.NewClient(socketPath, opts...)
	if err := client.Connect(ctx); err != nil {
		slog.Debug("daemon unavailable, live refresh disabled", "socket", socketPath, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
