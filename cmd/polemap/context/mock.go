package context

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/polemap/pkg/reconcile"
)

// MockContext provides a mock implementation of Context for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type MockContext struct {
	ReconcilerFunc   func() (reconcile.Reconciler, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	BatchWorkersFunc func() int
	VersionFunc      func() string
}

// Reconciler returns a reconciler using the mock function or a default one.
func (m *MockContext) Reconciler() (reconcile.Reconciler, error) {
	if m.ReconcilerFunc != nil {
		return m.ReconcilerFunc()
	}
	return reconcile.New()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *MockContext) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "json".
func (m *MockContext) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// BatchWorkers returns the worker count using the mock function or 2.
func (m *MockContext) BatchWorkers() int {
	if m.BatchWorkersFunc != nil {
		return m.BatchWorkersFunc()
	}
	return 2
}

// Version returns the version using the mock function or "test".
func (m *MockContext) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns "test".
func (m *MockContext) Commit() string { return "test" }

// Date returns "test".
func (m *MockContext) Date() string { return "test" }

// BuiltBy returns "test".
func (m *MockContext) BuiltBy() string { return "test" }

// Ensure MockContext implements Context at compile time.
var _ Context = (*MockContext)(nil)
