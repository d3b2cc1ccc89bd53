// Package context provides the application context interface for polemap
// commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with MockContext:
//
//	mock := &context.MockContext{
//	    ReconcilerFunc: func() (reconcile.Reconciler, error) {
//	        return reconcile.New()
//	    },
//	}
//	cmd := compare.NewCommand(mock)
package context

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/polemap/pkg/reconcile"
)

// Context provides what commands need from the application.
//
// Thread Safety: All methods must be safe for concurrent access.
type Context interface {
	// Reconciler returns the shared reconciler built from configuration.
	// It is safe for concurrent runs; each run keeps its own warnings.
	Reconciler() (reconcile.Reconciler, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// BatchWorkers returns how many batch jobs run at once.
	BatchWorkers() int

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
