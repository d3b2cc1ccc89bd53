package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/bucket"
	"github.com/agentstation/polemap/pkg/crossarm"
	"github.com/agentstation/polemap/pkg/fuzzy"
	"github.com/agentstation/polemap/pkg/guys"
	"github.com/agentstation/polemap/pkg/points"
)

// PolesToTableData converts bucketed poles to one row per bucket, pole top
// first, with a column per layer.
func PolesToTableData(poles []bucket.PoleComparison, wide bool) Data {
	headers := []string{"Pole", "Height (ft)"}
	for _, l := range attachment.Layers {
		headers = append(headers, l.String())
	}
	headers = append(headers, "Delta (ft)", "Severity")
	if wide {
		headers = append(headers, "Code")
	}

	var rows [][]string
	for _, p := range poles {
		for _, b := range p.Buckets {
			row := []string{p.PoleID, FormatFeet(b.Height)}
			for _, l := range attachment.Layers {
				row = append(row, Labels(b.Layer(l), wide))
			}
			row = append(row, FormatDelta(b.Delta), FormatSeverity(b.Severity))
			if wide {
				row = append(row, orDash(p.SecondaryCode))
			}
			rows = append(rows, row)
		}
	}

	align := []Align{AlignLeft, AlignRight}
	for range attachment.Layers {
		align = append(align, AlignLeft)
	}
	align = append(align, AlignRight, AlignLeft)
	if wide {
		align = append(align, AlignLeft)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// PointsToTableData converts attachment point comparisons to rows.
func PointsToTableData(cs []points.Comparison, wide bool) Data {
	headers := []string{"Pole", "Layer", "Category", "Source A", "A (ft)", "Source B", "B (ft)", "Delta (ft)"}
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		row := []string{c.PoleID, c.Layer, string(c.Category)}
		row = append(row, pointCells(c.A, wide)...)
		row = append(row, pointCells(c.B, wide)...)
		row = append(row, FormatDelta(c.Delta))
		rows = append(rows, row)
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignRight, AlignRight},
	}
}

func pointCells(p *points.Point, wide bool) []string {
	if p == nil {
		return []string{"-", "-"}
	}
	label := strings.TrimSpace(p.Owner + " " + p.Description)
	if p.Synthetic {
		label += " *"
	}
	if wide && len(p.Wires) > 0 {
		label += " (" + strings.Join(p.Wires, ", ") + ")"
	}
	return []string{label, FormatFeet(p.Height)}
}

// CrossArmsToTableData converts cross-arm matches to rows.
func CrossArmsToTableData(ms []crossarm.Match, wide bool) Data {
	headers := []string{"Pole", "Status", "Arm A", "A (ft)", "Arm B", "B (ft)", "Delta (ft)"}
	if wide {
		headers = append(headers, "Wires A", "Wires B")
	}
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		row := []string{m.PoleID, string(m.Status)}
		row = append(row, armCells(m.A)...)
		row = append(row, armCells(m.B)...)
		row = append(row, FormatDelta(m.Delta))
		if wide {
			row = append(row, armWires(m.A), armWires(m.B))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

func armCells(g *crossarm.Group) []string {
	if g == nil {
		return []string{"-", "-"}
	}
	return []string{g.ID, FormatFeet(g.Height)}
}

func armWires(g *crossarm.Group) string {
	if g == nil || len(g.Wires) == 0 {
		return "-"
	}
	return strings.Join(g.Wires, ", ")
}

// GuysToTableData converts guy match results to rows.
func GuysToTableData(rs []guys.Result) Data {
	headers := []string{"Pole", "Status", "Owner", "Height (in)", "Guy A", "Guy B"}
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{
			r.PoleID,
			string(r.Status),
			orDash(r.Key.Owner),
			strconv.Itoa(r.Key.Inches),
			recordID(r.A),
			recordID(r.B),
		})
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
	}
}

// DetailsToTableData converts detail rows of the fuzzy matcher.
func DetailsToTableData(ds []fuzzy.Detail, wide bool) Data {
	headers := []string{"Pole", "Status", "Tier", "Source A", "A (ft)", "Source B", "B (ft)", "Delta (ft)"}
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		row := []string{d.PoleID, string(d.Status), orDash(string(d.Tier))}
		row = append(row, recordCells(d.A, wide)...)
		row = append(row, recordCells(d.B, wide)...)
		row = append(row, FormatDelta(d.Delta))
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

func recordCells(r *attachment.Record, wide bool) []string {
	if r == nil {
		return []string{"-", "-"}
	}
	return []string{fmt.Sprintf("%s: %s", r.Kind, Label(*r, wide)), FormatFeet(r.Height)}
}

func recordID(r *attachment.Record) string {
	if r == nil {
		return "-"
	}
	return r.ID
}

// WarningsToTableData lists run warnings.
func WarningsToTableData(warnings []string) Data {
	rows := make([][]string, 0, len(warnings))
	for i, w := range warnings {
		rows = append(rows, []string{strconv.Itoa(i + 1), w})
	}
	return Data{
		Headers:         []string{"#", "Warning"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}
