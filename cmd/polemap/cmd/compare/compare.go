// Package compare provides the compare command: one design-tree document
// against one field survey document.
package compare

import (
	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/polemap/cmd/polemap/context"
	"github.com/agentstation/polemap/internal/cmd/output"
	"github.com/agentstation/polemap/pkg/adapters"
	"github.com/agentstation/polemap/pkg/errors"
	"github.com/agentstation/polemap/pkg/logging"
	"github.com/agentstation/polemap/pkg/save"
)

// Flags holds the compare command flags.
type Flags struct {
	Design string
	Survey string
	View   string
	Save   string
}

// NewCommand creates the compare command using app context.
func NewCommand(app appcontext.Context) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "compare",
		GroupID: "core",
		Short:   "Compare a design document against a field survey",
		Long: `Compare normalizes a design-tree document (Source A) and a field survey
document (Source B), joins their attachments into 0.1 ft height buckets per
pole and reports how well the sources agree.

Views:
  poles      bucketed heights with a green/amber/red/grey severity
  points     attachment points, exact and height-only matches
  crossarms  design cross-arms against survey pseudo-arms
  guys       down-guys matched on owner and whole-inch height
  details    best counterpart of every design attachment
  warnings   data-quality warnings raised during the run
  all        every view`,
		Example: `  polemap compare --design job42.json --survey job42-survey.json
  polemap compare --design a.json --survey b.json --view details -o wide
  polemap compare --design a.json --survey b.json --view all -o json
  polemap compare --design a.json --survey b.json --save results/job42.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Design, "design", "", "design-tree document (Source A)")
	cmd.Flags().StringVar(&flags.Survey, "survey", "", "field survey document (Source B)")
	cmd.Flags().StringVar(&flags.View, "view", string(output.ViewPoles), "view: poles, points, crossarms, guys, details, warnings, all")
	cmd.Flags().StringVar(&flags.Save, "save", "", "also write the full result to this file (.json or .yaml)")
	_ = cmd.MarkFlagRequired("design")
	_ = cmd.MarkFlagRequired("survey")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Context, flags *Flags) error {
	view, err := output.ParseView(flags.View)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	design, err := adapters.LoadFile(adapters.DesignTree, flags.Design)
	if err != nil {
		return err
	}
	survey, err := adapters.LoadFile(adapters.Survey, flags.Survey)
	if err != nil {
		return err
	}

	r, err := app.Reconciler()
	if err != nil {
		return errors.WrapResource("create", "reconciler", "", err)
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	res, err := r.Compare(ctx, design, survey)
	if err != nil {
		return err
	}
	if flags.Save != "" {
		if err := save.Write(res, save.WithPath(flags.Save)); err != nil {
			return err
		}
		logging.FromContext(ctx).Info().Str("path", flags.Save).Msg("Saved result")
	}
	return output.FormatResult(cmd.OutOrStdout(), res, view, format)
}
