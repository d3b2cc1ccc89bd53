// Package reconcile runs one comparison of a design-tree document against a
// field survey document. It normalizes both sources, joins them into height
// buckets and builds the point, cross-arm, guy and detail views.
//
// Every run gets a fresh warnings collector and unit conversion memo, so a
// Reconciler may be shared by concurrent runs.
package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/polemap/pkg/adapters"
	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/bucket"
	"github.com/agentstation/polemap/pkg/crossarm"
	"github.com/agentstation/polemap/pkg/errors"
	"github.com/agentstation/polemap/pkg/fuzzy"
	"github.com/agentstation/polemap/pkg/guys"
	"github.com/agentstation/polemap/pkg/logging"
	"github.com/agentstation/polemap/pkg/normalize"
	"github.com/agentstation/polemap/pkg/points"
	"github.com/agentstation/polemap/pkg/severity"
)

// Reconciler compares the two sources of a pole survey.
type Reconciler interface {
	// Compare normalizes a design-tree and a survey document and compares them.
	Compare(ctx context.Context, design, survey *adapters.Document) (*Result, error)

	// CompareRecords compares already normalized records of both sources.
	CompareRecords(ctx context.Context, records []attachment.Record) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	tables   *normalize.Tables
	memoSize int
	classify bucket.Classifier
	logger   *zerolog.Logger
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	tables := options.tables
	if tables == nil {
		if tables, err = normalize.DefaultTables(); err != nil {
			return nil, err
		}
	}

	return &reconciler{
		tables:   tables,
		memoSize: options.memoSize,
		classify: options.classify,
		logger:   options.logger,
	}, nil
}

// Compare implements Reconciler.
func (r *reconciler) Compare(ctx context.Context, design, survey *adapters.Document) (*Result, error) {
	if err := checkDocument("design", design, adapters.DesignTree); err != nil {
		return nil, err
	}
	if err := checkDocument("survey", survey, adapters.Survey); err != nil {
		return nil, err
	}

	ctx, res := r.begin(ctx)
	res.Metadata.Design = design.Name
	res.Metadata.Survey = survey.Name

	n, err := normalize.New(r.tables, normalize.WithMemoSize(r.memoSize))
	if err != nil {
		return nil, err
	}
	warnings := attachment.NewWarnings()

	a, err := normalizeDocument(ctx, design, n, warnings)
	if err != nil {
		return nil, err
	}
	b, err := normalizeDocument(ctx, survey, n, warnings)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().
		Int("conversions_cached", n.Converter().Cached()).
		Msg("Normalized sources")

	if err := r.run(ctx, res, append(a, b...), warnings); err != nil {
		return nil, err
	}
	return res, nil
}

// CompareRecords implements Reconciler.
func (r *reconciler) CompareRecords(ctx context.Context, records []attachment.Record) (*Result, error) {
	ctx, res := r.begin(ctx)
	if err := r.run(ctx, res, records, attachment.NewWarnings()); err != nil {
		return nil, err
	}
	return res, nil
}

// begin starts a run: a new run id on the result and the context logger.
func (r *reconciler) begin(ctx context.Context) (context.Context, *Result) {
	if r.logger != nil {
		ctx = logging.WithLogger(ctx, r.logger)
	}
	runID := uuid.NewString()
	return logging.WithRun(ctx, runID), newResult(runID)
}

// run builds every view from the records of one run.
func (r *reconciler) run(ctx context.Context, res *Result, records []attachment.Record, warnings *attachment.Warnings) error {
	logger := logging.FromContext(ctx)

	poles, err := bucket.Join(records, warnings, r.classify)
	if err != nil {
		return err
	}
	res.Poles = poles
	for _, p := range poles {
		logging.FromContext(logging.WithPole(ctx, p.PoleID)).Debug().
			Int("buckets", len(p.Buckets)).
			Str("worst", severity.Worst(p).String()).
			Msg("Compared pole")
	}

	for _, rec := range records {
		if rec.Source() == attachment.SourceA {
			res.Metadata.Stats.RecordsA++
		} else {
			res.Metadata.Stats.RecordsB++
		}
	}

	res.Points = points.Build(records)
	res.CrossArms = crossarm.Build(records)
	res.Guys = guys.NewMatcher(logger).Build(records)
	res.Details = fuzzy.Build(records)
	res.Groups = bucket.GroupRecords(records)

	res.Warnings = append(res.Warnings, warnings.List()...)
	for _, w := range res.Warnings {
		logger.Warn().Str("warning", w).Msg("Data quality warning")
	}

	res.finalize()
	logger.Info().
		Int("poles", res.Metadata.Stats.Poles).
		Int("warnings", len(res.Warnings)).
		Dur("duration", res.Metadata.Duration).
		Msg(res.Summary())
	return nil
}

func normalizeDocument(ctx context.Context, doc *adapters.Document, n *normalize.Normalizer, warnings *attachment.Warnings) ([]attachment.Record, error) {
	records, err := doc.Records(n, warnings)
	if err != nil {
		return nil, err
	}
	logging.FromContext(logging.WithSource(ctx, string(doc.Schema.Source()))).Debug().
		Str("document", doc.Name).
		Int("records", len(records)).
		Msg("Normalized document")
	return records, nil
}

func checkDocument(field string, doc *adapters.Document, want adapters.Schema) error {
	if doc == nil {
		return errors.Required(field)
	}
	if doc.Schema != want {
		return &errors.ValidationError{
			Field:   field,
			Value:   doc.Schema.String(),
			Message: "must be a " + want.String() + " document",
		}
	}
	return nil
}
