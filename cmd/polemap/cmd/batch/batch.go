// Package batch provides the batch command: several independent comparisons
// listed in a YAML manifest, run concurrently.
package batch

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/polemap/cmd/polemap/context"
	"github.com/agentstation/polemap/internal/cmd/emoji"
	"github.com/agentstation/polemap/internal/cmd/output"
	"github.com/agentstation/polemap/internal/cmd/table"
	"github.com/agentstation/polemap/pkg/adapters"
	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/logging"
	"github.com/agentstation/polemap/pkg/reconcile"
)

// Status is the outcome of one job.
type Status string

const (
	Succeeded Status = "succeeded"
	Failed    Status = "failed"
)

// JobResult is the outcome of one batch job.
type JobResult struct {
	Job    Job               `json:"job" yaml:"job"`
	Status Status            `json:"status" yaml:"status"`
	Error  string            `json:"error,omitempty" yaml:"error,omitempty"`
	Result *reconcile.Result `json:"result,omitempty" yaml:"result,omitempty"`
}

// NewCommand creates the batch command using app context.
func NewCommand(app appcontext.Context) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:     "batch <manifest.yaml>",
		GroupID: "core",
		Short:   "Run the comparisons listed in a manifest",
		Long: `Batch runs every design/survey pair listed in a YAML manifest. Jobs run
concurrently and independently: a job whose documents cannot be read or
parsed is reported as failed and the others still run.

Manifest:
  workers: 4            # optional
  jobs:
    - name: job42
      design: job42/design.json
      survey: job42/survey.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := LoadManifest(args[0])
			if err != nil {
				return err
			}
			n := app.BatchWorkers()
			if m.Workers > 0 {
				n = m.Workers
			}
			if workers > 0 {
				n = workers
			}

			r, err := app.Reconciler()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			results := Run(ctx, r, m.Jobs, n)

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			if err := write(cmd.OutOrStdout(), results, output.DetectFormat(string(format))); err != nil {
				return err
			}
			if failed := countFailed(results); failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent jobs (overrides config and manifest)")
	return cmd
}

// Run executes jobs with at most workers running at once. Results keep
// manifest order.
func Run(ctx context.Context, r reconcile.Reconciler, jobs []Job, workers int) []JobResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]JobResult, len(jobs))
	p := pool.New().WithMaxGoroutines(workers)
	for i, job := range jobs {
		p.Go(func() {
			results[i] = runJob(logging.WithJob(ctx, job.Name), r, job)
		})
	}
	p.Wait()
	return results
}

func runJob(ctx context.Context, r reconcile.Reconciler, job Job) JobResult {
	logger := logging.FromContext(ctx)
	res, err := compare(ctx, r, job)
	if err != nil {
		logger.Error().Err(err).Msg("Job failed")
		return JobResult{Job: job, Status: Failed, Error: err.Error()}
	}
	logger.Debug().Str("run_id", res.Metadata.RunID).Msg("Job completed")
	return JobResult{Job: job, Status: Succeeded, Result: res}
}

func compare(ctx context.Context, r reconcile.Reconciler, job Job) (*reconcile.Result, error) {
	design, err := adapters.LoadFile(adapters.DesignTree, job.Design)
	if err != nil {
		return nil, err
	}
	survey, err := adapters.LoadFile(adapters.Survey, job.Survey)
	if err != nil {
		return nil, err
	}
	return r.Compare(ctx, design, survey)
}

func countFailed(results []JobResult) int {
	n := 0
	for _, r := range results {
		if r.Status == Failed {
			n++
		}
	}
	return n
}

func write(w io.Writer, results []JobResult, format output.Format) error {
	if !format.IsTable() {
		return output.NewFormatter(format).Format(w, results)
	}
	return output.NewFormatter(format).Format(w, summaryTable(results))
}

func summaryTable(results []JobResult) table.Data {
	headers := []string{"Job", "Status", "Poles", "Green", "Amber", "Red", "Grey", "Warnings", "Error"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			rows = append(rows, []string{r.Job.Name, emoji.Error + " " + string(r.Status), "-", "-", "-", "-", "-", "-", r.Error})
			continue
		}
		s := r.Result.Metadata.Stats
		mark := emoji.Success
		if r.Result.HasWarnings() {
			mark = emoji.Warning
		}
		rows = append(rows, []string{
			r.Job.Name,
			mark + " " + string(r.Status),
			strconv.Itoa(s.Poles),
			strconv.Itoa(s.Severity[attachment.SeverityGreen]),
			strconv.Itoa(s.Severity[attachment.SeverityAmber]),
			strconv.Itoa(s.Severity[attachment.SeverityRed]),
			strconv.Itoa(s.Severity[attachment.SeverityGrey]),
			strconv.Itoa(len(r.Result.Warnings)),
			"-",
		})
	}
	return table.Data{Headers: headers, Rows: rows}
}
