package reconcile

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/bucket"
	"github.com/agentstation/polemap/pkg/crossarm"
	"github.com/agentstation/polemap/pkg/fuzzy"
	"github.com/agentstation/polemap/pkg/guys"
	"github.com/agentstation/polemap/pkg/points"
	"github.com/agentstation/polemap/pkg/severity"
)

// Result represents the outcome of one comparison run.
type Result struct {
	// Views
	Poles     []bucket.PoleComparison `json:"poles" yaml:"poles"`
	Points    points.Result           `json:"points" yaml:"points"`
	CrossArms crossarm.Result         `json:"cross_arms" yaml:"cross_arms"`
	Guys      []guys.Result           `json:"guys" yaml:"guys"`
	Details   []fuzzy.Detail          `json:"details" yaml:"details"`
	Groups    []bucket.Group          `json:"groups" yaml:"groups"`

	// Metadata
	Metadata Metadata `json:"metadata" yaml:"metadata"`

	// Issues
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// Metadata contains metadata about a comparison run.
type Metadata struct {
	// RunID identifies the run in logs and output
	RunID string `json:"run_id" yaml:"run_id"`

	// Design and Survey name the compared documents
	Design string `json:"design" yaml:"design"`
	Survey string `json:"survey" yaml:"survey"`

	// StartTime when the run started
	StartTime utc.Time `json:"start_time" yaml:"start_time"`

	// EndTime when the run completed
	EndTime utc.Time `json:"end_time" yaml:"end_time"`

	// Duration of the run
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Statistics about the run
	Stats Statistics `json:"stats" yaml:"stats"`
}

// Statistics contains counts about a comparison run.
type Statistics struct {
	Poles           int            `json:"poles" yaml:"poles"`
	RecordsA        int            `json:"records_a" yaml:"records_a"`
	RecordsB        int            `json:"records_b" yaml:"records_b"`
	Buckets         int            `json:"buckets" yaml:"buckets"`
	Severity        severity.Tally `json:"severity" yaml:"severity"`
	PointMatches    int            `json:"point_matches" yaml:"point_matches"`
	CrossArmMatches int            `json:"cross_arm_matches" yaml:"cross_arm_matches"`
	GuyMatches      int            `json:"guy_matches" yaml:"guy_matches"`
	DetailMatches   int            `json:"detail_matches" yaml:"detail_matches"`
}

// HasWarnings returns true if the run recorded any data-quality warning.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	return fmt.Sprintf("Compared %d poles (%d buckets): %d green, %d amber, %d red, %d grey; %d warnings",
		s.Poles, s.Buckets,
		s.Severity[attachment.SeverityGreen], s.Severity[attachment.SeverityAmber],
		s.Severity[attachment.SeverityRed], s.Severity[attachment.SeverityGrey],
		len(r.Warnings))
}

// newResult creates a result with defaults.
func newResult(runID string) *Result {
	return &Result{
		Warnings: []string{},
		Metadata: Metadata{
			RunID:     runID,
			StartTime: utc.Now(),
		},
	}
}

// finalize computes statistics and marks completion.
func (r *Result) finalize() {
	r.Metadata.EndTime = utc.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)

	s := &r.Metadata.Stats
	s.Poles = len(r.Poles)
	for _, p := range r.Poles {
		s.Buckets += len(p.Buckets)
	}
	s.Severity = severity.Count(r.Poles)
	s.PointMatches = countPointMatches(r.Points.Comparisons)
	s.CrossArmMatches = countCrossArmMatches(r.CrossArms.Matches)
	s.GuyMatches = guys.Count(r.Guys)
	for _, d := range r.Details {
		if d.Status == fuzzy.Matched {
			s.DetailMatches++
		}
	}
}

func countPointMatches(cs []points.Comparison) int {
	counts := points.Count(cs)
	return counts[points.Exact] + counts[points.HeightOnly]
}

func countCrossArmMatches(ms []crossarm.Match) int {
	n := 0
	for _, m := range ms {
		if m.Status == crossarm.Exact || m.Status == crossarm.Close {
			n++
		}
	}
	return n
}
