// Package crossarm groups wires into cross-arms and matches arms across
// sources. Source A names its arms explicitly. Source B has no arm entity, so
// its wires are snapped to standard mounting bands and each occupied band
// becomes a pseudo cross-arm.
package crossarm

import (
	"fmt"
	"math"
	"sort"

	"github.com/agentstation/polemap/internal/utils/ptr"
	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
)

// Group is one cross-arm and the wires it carries.
type Group struct {
	ID     string            `json:"id" yaml:"id"`
	PoleID string            `json:"pole_id" yaml:"pole_id"`
	Layer  attachment.Layer  `json:"layer" yaml:"layer"`
	Source attachment.Source `json:"source" yaml:"source"`
	Height float64           `json:"height_ft" yaml:"height_ft"`
	Wires  []string          `json:"wires" yaml:"wires"`
	Pseudo bool              `json:"pseudo,omitempty" yaml:"pseudo,omitempty"`
}

// Snap returns the standard band a raw height snaps to. The window is
// inclusive: a height exactly BandSnapWindow from a band snaps.
func Snap(height float64) (float64, bool) {
	for _, band := range constants.StandardBands {
		if math.Abs(height-band) <= constants.BandSnapWindow {
			return band, true
		}
	}
	return 0, false
}

// Explicit walks cross-arm records to the insulators they carry and on to
// the wires those insulators carry.
func Explicit(records []attachment.Record) []Group {
	out := []Group{}
	arms := make(map[string]int)
	for _, r := range records {
		if !r.Is(attachment.KindCrossArm) {
			continue
		}
		arms[scoped(r.PoleID, r.Layer, r.ID)] = len(out)
		out = append(out, Group{
			ID:     r.ID,
			PoleID: r.PoleID,
			Layer:  r.Layer,
			Source: r.Source(),
			Height: r.Height,
			Wires:  []string{},
		})
	}

	onArm := make(map[string]int)
	for _, r := range records {
		if r.Is(attachment.KindInsulator) && r.CrossArmID != "" {
			if i, ok := arms[scoped(r.PoleID, r.Layer, r.CrossArmID)]; ok {
				onArm[scoped(r.PoleID, r.Layer, r.ID)] = i
			}
		}
	}
	for _, r := range records {
		if r.Is(attachment.KindWire) && r.ParentID != "" {
			if i, ok := onArm[scoped(r.PoleID, r.Layer, r.ParentID)]; ok {
				out[i].Wires = append(out[i].Wires, r.ID)
			}
		}
	}
	return out
}

// Pseudo snaps every real wire to a standard band and groups wires sharing a
// band on the same pole and layer. Wires outside every band window are not
// grouped. Groups are returned in first-appearance order.
func Pseudo(records []attachment.Record) []Group {
	out := []Group{}
	at := make(map[string]int)
	for _, r := range records {
		if !r.Is(attachment.KindWire) {
			continue
		}
		band, ok := Snap(r.Height)
		if !ok {
			continue
		}
		id := fmt.Sprintf("pseudo:%s:%.1f", r.Layer, band)
		k := scoped(r.PoleID, r.Layer, id)
		i, ok := at[k]
		if !ok {
			i = len(out)
			at[k] = i
			out = append(out, Group{
				ID:     id,
				PoleID: r.PoleID,
				Layer:  r.Layer,
				Source: r.Source(),
				Height: band,
				Pseudo: true,
				Wires:  []string{},
			})
		}
		out[i].Wires = append(out[i].Wires, r.ID)
	}
	return out
}

// Status is the outcome of matching one arm.
type Status string

const (
	Exact       Status = "exact"
	Close       Status = "close"
	SourceAOnly Status = "SourceA-only"
	SourceBOnly Status = "SourceB-only"
)

// Match pairs a Source-A arm with a Source-B pseudo-arm.
type Match struct {
	PoleID string   `json:"pole_id" yaml:"pole_id"`
	Status Status   `json:"status" yaml:"status"`
	A      *Group   `json:"a,omitempty" yaml:"a,omitempty"`
	B      *Group   `json:"b,omitempty" yaml:"b,omitempty"`
	Delta  *float64 `json:"delta_ft,omitempty" yaml:"delta_ft,omitempty"`
}

// Result holds both arm lists and their matches.
type Result struct {
	A       []Group `json:"source_a" yaml:"source_a"`
	B       []Group `json:"source_b" yaml:"source_b"`
	Matches []Match `json:"matches" yaml:"matches"`
}

// Build derives explicit Source-A arms and Source-B pseudo-arms from
// normalized records and matches them.
func Build(records []attachment.Record) Result {
	var a, b []attachment.Record
	for _, r := range records {
		if r.Source() == attachment.SourceA {
			a = append(a, r)
		} else {
			b = append(b, r)
		}
	}
	res := Result{A: Explicit(a), B: Pseudo(b)}
	res.Matches = Pair(res.A, res.B)
	return res
}

// Pair matches arms of the same pole and corresponding layer. All candidate
// pairs within tolerance are claimed nearest first; equal distances keep
// input order. Results list Source-A arms in input order followed by
// unclaimed Source-B arms.
func Pair(a, b []Group) []Match {
	type candidate struct {
		i, j  int
		delta float64
	}
	var candidates []candidate
	for i := range a {
		for j := range b {
			if a[i].PoleID != b[j].PoleID || a[i].Layer.Counterpart() != b[j].Layer {
				continue
			}
			if d := math.Abs(a[i].Height - b[j].Height); d <= constants.CrossArmMatchTolerance {
				candidates = append(candidates, candidate{i, j, d})
			}
		}
	}
	sort.SliceStable(candidates, func(x, y int) bool { return candidates[x].delta < candidates[y].delta })

	match := make([]int, len(a))
	for i := range match {
		match[i] = -1
	}
	claimed := make([]bool, len(b))
	for _, c := range candidates {
		if match[c.i] >= 0 || claimed[c.j] {
			continue
		}
		match[c.i], claimed[c.j] = c.j, true
	}

	out := make([]Match, 0, len(a)+len(b))
	for i := range a {
		ga := a[i]
		m := Match{PoleID: ga.PoleID, Status: SourceAOnly, A: &ga}
		if j := match[i]; j >= 0 {
			gb := b[j]
			d := math.Abs(ga.Height - gb.Height)
			m.B, m.Delta, m.Status = &gb, ptr.To(d), Close
			if d < constants.CrossArmExactTolerance {
				m.Status = Exact
			}
		}
		out = append(out, m)
	}
	for j := range b {
		if !claimed[j] {
			gb := b[j]
			out = append(out, Match{PoleID: gb.PoleID, Status: SourceBOnly, B: &gb})
		}
	}
	return out
}

func scoped(pole string, layer attachment.Layer, id string) string {
	return pole + "\x00" + string(layer) + "\x00" + id
}
