// Package table converts comparison results into rows for CLI tables.
package table

import (
	"fmt"
	"strings"

	"github.com/agentstation/polemap/internal/cmd/emoji"
	"github.com/agentstation/polemap/pkg/attachment"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// FormatFeet formats a height in feet with two decimals.
func FormatFeet(feet float64) string {
	return fmt.Sprintf("%.2f", feet)
}

// FormatDelta formats an optional delta, "-" when undefined.
func FormatDelta(delta *float64) string {
	if delta == nil {
		return "-"
	}
	return FormatFeet(*delta)
}

// FormatSeverity prefixes a severity with its status symbol.
func FormatSeverity(s attachment.Severity) string {
	return emoji.ForSeverity(s) + " " + s.String()
}

// Label describes a record in one cell: owner and description, marked when
// synthesized.
func Label(r attachment.Record, wide bool) string {
	label := r.Description
	if label == "" {
		label = string(r.Kind)
	}
	if wide && r.Owner != "" {
		label = r.Owner + " " + label
	}
	if wide {
		label += " [" + r.ID + "]"
	}
	if r.Synthetic {
		label += " *"
	}
	return label
}

// Labels joins the labels of several records, "-" when empty.
func Labels(records []attachment.Record, wide bool) string {
	if len(records) == 0 {
		return "-"
	}
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = Label(r, wide)
	}
	return strings.Join(parts, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
