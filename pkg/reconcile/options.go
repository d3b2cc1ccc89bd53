package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/polemap/pkg/bucket"
	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/errors"
	"github.com/agentstation/polemap/pkg/normalize"
	"github.com/agentstation/polemap/pkg/severity"
)

// options configures a reconciler.
type options struct {
	tables   *normalize.Tables
	memoSize int
	classify bucket.Classifier
	logger   *zerolog.Logger // nil means the context logger
}

func defaultOptions() *options {
	return &options{
		memoSize: constants.DefaultMemoSize,
		classify: severity.Classify,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithTables sets the owner alias and type class tables. The embedded
// tables are used when unset.
func WithTables(tables *normalize.Tables) Option {
	return func(o *options) error {
		if tables == nil {
			return &errors.ValidationError{
				Field:   "tables",
				Message: "cannot be nil",
			}
		}
		o.tables = tables
		return nil
	}
}

// WithMemoSize sets the capacity of the per-run unit conversion memo.
func WithMemoSize(size int) Option {
	return func(o *options) error {
		if size <= 0 {
			return &errors.ValidationError{
				Field:   "memo_size",
				Value:   size,
				Message: "must be positive",
			}
		}
		o.memoSize = size
		return nil
	}
}

// WithClassifier replaces the bucket severity classifier.
func WithClassifier(classify bucket.Classifier) Option {
	return func(o *options) error {
		if classify == nil {
			return &errors.ValidationError{
				Field:   "classifier",
				Message: "cannot be nil",
			}
		}
		o.classify = classify
		return nil
	}
}

// WithLogger sets the logger used for run progress and near misses.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}
