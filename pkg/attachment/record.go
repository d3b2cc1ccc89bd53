// Package attachment defines the canonical attachment representation shared by
// every stage of a pole comparison. Both source schemas are normalized into
// Record values; all downstream matching, bucketing and classification
// operates on Records only.
//
// Heights are always stored in feet. Unit conversion happens once, inside the
// schema adapters, and nowhere else.
package attachment

import (
	"fmt"
	"strings"
)

// Layer identifies which source and which design state a record came from.
type Layer string

// String returns the string representation of a layer.
func (l Layer) String() string {
	return string(l)
}

const (
	// SourceABaseline is the as-measured state of the design-tree source.
	SourceABaseline Layer = "SourceA-Baseline"
	// SourceAProposed is the recommended state of the design-tree source.
	SourceAProposed Layer = "SourceA-Proposed"
	// SourceBBaseline is the as-measured state of the photo-measurement source.
	SourceBBaseline Layer = "SourceB-Baseline"
	// SourceBProposed is the proposed state of the photo-measurement source.
	SourceBProposed Layer = "SourceB-Proposed"
)

// Layers lists every layer in display order.
var Layers = []Layer{SourceABaseline, SourceAProposed, SourceBBaseline, SourceBProposed}

// Source returns the source side of the layer.
func (l Layer) Source() Source {
	if strings.HasPrefix(string(l), string(SourceA)) {
		return SourceA
	}
	return SourceB
}

// IsProposed reports whether the layer is a proposed (as-recommended) layer.
func (l Layer) IsProposed() bool {
	return l == SourceAProposed || l == SourceBProposed
}

// Counterpart returns the corresponding layer of the other source
// (Baseline-A <-> Baseline-B, Proposed-A <-> Proposed-B).
func (l Layer) Counterpart() Layer {
	switch l {
	case SourceABaseline:
		return SourceBBaseline
	case SourceAProposed:
		return SourceBProposed
	case SourceBBaseline:
		return SourceABaseline
	default:
		return SourceAProposed
	}
}

// Source identifies one of the two reconciled datasets.
type Source string

const (
	// SourceA is the hierarchical design-tree dataset.
	SourceA Source = "SourceA"
	// SourceB is the flat photo-measurement dataset.
	SourceB Source = "SourceB"
)

// Layer returns the baseline or proposed layer of the source.
func (s Source) Layer(proposed bool) Layer {
	switch {
	case s == SourceA && proposed:
		return SourceAProposed
	case s == SourceA:
		return SourceABaseline
	case proposed:
		return SourceBProposed
	default:
		return SourceBBaseline
	}
}

// Kind is the structural kind of an attachment.
type Kind string

const (
	KindWire      Kind = "Wire"
	KindInsulator Kind = "Insulator"
	KindGuy       Kind = "Guy"
	KindEquipment Kind = "Equipment"
	KindCrossArm  Kind = "CrossArm"
)

// ImplicitDescription is the description given to synthesized insulators.
const ImplicitDescription = "(implicit)"

// Record is the canonical unit produced by normalization.
type Record struct {
	PoleID        string  `json:"pole_id" yaml:"pole_id"`
	SecondaryCode string  `json:"secondary_code,omitempty" yaml:"secondary_code,omitempty"`
	Layer         Layer   `json:"layer" yaml:"layer"`
	Kind          Kind    `json:"kind" yaml:"kind"`
	Description   string  `json:"description" yaml:"description"`
	Owner         string  `json:"owner,omitempty" yaml:"owner,omitempty"`
	Height        float64 `json:"height_ft" yaml:"height_ft"`
	ID            string  `json:"id" yaml:"id"`
	ParentID      string  `json:"parent_insulator_id,omitempty" yaml:"parent_insulator_id,omitempty"`
	CrossArmID    string  `json:"cross_arm_id,omitempty" yaml:"cross_arm_id,omitempty"`
	Subtype       Class   `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Synthetic     bool    `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`

	// PoleHeight is the pole's above-ground length in feet, zero when unknown.
	PoleHeight float64 `json:"pole_height_ft,omitempty" yaml:"pole_height_ft,omitempty"`
}

// String returns a compact human-readable form of the record.
func (r Record) String() string {
	syn := ""
	if r.Synthetic {
		syn = " synthetic"
	}
	return fmt.Sprintf("%s %s %s %q %.2fft [%s]%s", r.PoleID, r.Layer, r.Kind, r.Description, r.Height, r.ID, syn)
}

// Is reports whether the record is a real (non-synthetic) record of the given kind.
func (r Record) Is(kind Kind) bool {
	return r.Kind == kind && !r.Synthetic
}

// Source returns the source side the record belongs to.
func (r Record) Source() Source {
	return r.Layer.Source()
}

// HeightInches returns the height rounded to the nearest whole inch.
func (r Record) HeightInches() int {
	return RoundInches(r.Height)
}

// RoundInches converts a height in feet to the nearest whole inch.
func RoundInches(feet float64) int {
	inches := feet * 12
	if inches < 0 {
		return -int(-inches + 0.5)
	}
	return int(inches + 0.5)
}

// Filter returns the records for which keep returns true, preserving order.
func Filter(records []Record, keep func(Record) bool) []Record {
	var out []Record
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ByLayer returns the records that belong to layer.
func ByLayer(records []Record, layer Layer) []Record {
	return Filter(records, func(r Record) bool { return r.Layer == layer })
}
