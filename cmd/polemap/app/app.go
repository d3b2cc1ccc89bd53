// Package app provides the application context and dependency management
// for the polemap CLI: configuration, logging and the shared reconciler.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	appcontext "github.com/agentstation/polemap/cmd/polemap/context"
	"github.com/agentstation/polemap/pkg/errors"
	"github.com/agentstation/polemap/pkg/normalize"
	"github.com/agentstation/polemap/pkg/reconcile"
)

// App represents the polemap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Reconciler instance (lazy-initialized, singleton)
	mu         sync.RWMutex
	reconciler reconcile.Reconciler
}

// Ensure App implements the command context at compile time.
var _ appcontext.Context = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// BatchWorkers returns how many batch jobs run at once.
func (a *App) BatchWorkers() int {
	return a.config.BatchWorkers
}

// Reconciler returns the reconciler, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Reconciler() (reconcile.Reconciler, error) {
	a.mu.RLock()
	if a.reconciler != nil {
		r := a.reconciler
		a.mu.RUnlock()
		return r, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.reconciler != nil {
		return a.reconciler, nil
	}

	opts, err := a.buildReconcileOptions()
	if err != nil {
		return nil, err
	}
	r, err := reconcile.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "reconciler", "", err)
	}

	a.reconciler = r
	return r, nil
}

// Shutdown performs graceful shutdown of the application. Runs hold no
// background resources, so there is nothing to stop beyond logging.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// buildReconcileOptions constructs reconciler options from the app configuration.
func (a *App) buildReconcileOptions() ([]reconcile.Option, error) {
	var opts []reconcile.Option

	if a.config.TablesFile != "" {
		tables, err := normalize.LoadTables(a.config.TablesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reconcile.WithTables(tables))
	}

	if a.config.MemoSize > 0 {
		opts = append(opts, reconcile.WithMemoSize(a.config.MemoSize))
	}

	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithReconciler sets a custom reconciler (useful for testing).
func WithReconciler(r reconcile.Reconciler) Option {
	return func(a *App) error {
		a.reconciler = r
		return nil
	}
}
