package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/polemap/internal/cmd/table"
	"github.com/agentstation/polemap/pkg/errors"
	"github.com/agentstation/polemap/pkg/reconcile"
)

// View selects which part of a comparison result is printed.
type View string

const (
	ViewPoles     View = "poles"
	ViewPoints    View = "points"
	ViewCrossArms View = "crossarms"
	ViewGuys      View = "guys"
	ViewDetails   View = "details"
	ViewWarnings  View = "warnings"
	ViewAll       View = "all"
)

// Views lists the views printed by ViewAll, in order.
var Views = []View{ViewPoles, ViewPoints, ViewCrossArms, ViewGuys, ViewDetails, ViewWarnings}

// ParseView converts a string to a View with validation.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(s))
	if v == "" {
		return ViewPoles, nil
	}
	if v == ViewAll {
		return v, nil
	}
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", &errors.ValidationError{
		Field:   "view",
		Value:   s,
		Message: "must be one of: poles, points, crossarms, guys, details, warnings, all",
	}
}

// Select returns the data of one view: table rows for table formats and the
// result's own values otherwise.
func Select(res *reconcile.Result, view View, format Format) any {
	wide := format == FormatWide
	if format.IsTable() {
		switch view {
		case ViewPoints:
			return table.PointsToTableData(res.Points.Comparisons, wide)
		case ViewCrossArms:
			return table.CrossArmsToTableData(res.CrossArms.Matches, wide)
		case ViewGuys:
			return table.GuysToTableData(res.Guys)
		case ViewDetails:
			return table.DetailsToTableData(res.Details, wide)
		case ViewWarnings:
			return table.WarningsToTableData(res.Warnings)
		default:
			return table.PolesToTableData(res.Poles, wide)
		}
	}

	switch view {
	case ViewAll:
		return res
	case ViewPoints:
		return res.Points
	case ViewCrossArms:
		return res.CrossArms
	case ViewGuys:
		return res.Guys
	case ViewDetails:
		return res.Details
	case ViewWarnings:
		return res.Warnings
	default:
		return res.Poles
	}
}

// FormatResult writes a comparison result. Tables of the all view are
// printed one after another under a heading; structured formats print the
// whole result.
func FormatResult(w io.Writer, res *reconcile.Result, view View, format Format) error {
	formatter := NewFormatter(format)
	if view != ViewAll || !format.IsTable() {
		return formatter.Format(w, Select(res, view, format))
	}
	for i, v := range Views {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", strings.ToUpper(string(v))); err != nil {
			return err
		}
		if err := formatter.Format(w, Select(res, v, format)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", res.Summary())
	return err
}
