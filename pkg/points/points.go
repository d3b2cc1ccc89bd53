// Package points builds attachment points, the physical places where wires
// hang from a pole, and compares them across sources.
//
// Source-A points come from explicit insulators. Source-B points come from
// explicit insulators plus synthetic points inferred by clustering the wires
// that no insulator carries.
package points

import (
	"fmt"
	"math"
	"strings"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
)

// Point is an inferred or explicit attachment point.
type Point struct {
	ID          string            `json:"id" yaml:"id"`
	Source      attachment.Source `json:"source" yaml:"source"`
	Layer       attachment.Layer  `json:"layer" yaml:"layer"`
	PoleID      string            `json:"pole_id" yaml:"pole_id"`
	Owner       string            `json:"owner,omitempty" yaml:"owner,omitempty"`
	Description string            `json:"description" yaml:"description"`
	Height      float64           `json:"height_ft" yaml:"height_ft"`
	Wires       []string          `json:"wires,omitempty" yaml:"wires,omitempty"`
	Synthetic   bool              `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// Inches returns the point height rounded to the nearest inch.
func (p Point) Inches() int {
	return attachment.RoundInches(p.Height)
}

// Eligible reports whether a wire may hang from an insulator. Guys,
// equipment, pole-top hardware and communication drops do not.
func Eligible(r attachment.Record) bool {
	if !r.Is(attachment.KindWire) {
		return false
	}
	switch r.Subtype {
	case attachment.ClassGuy, attachment.ClassEquipment, attachment.ClassPoleTop, attachment.ClassCommDrop:
		return false
	}
	return true
}

// Explicit returns one point per real insulator in records, carrying the
// eligible wires that name it as parent.
func Explicit(records []attachment.Record) []Point {
	var out []Point
	at := make(map[string]int)
	for _, r := range records {
		if !r.Is(attachment.KindInsulator) {
			continue
		}
		at[key(r.PoleID, r.Layer, r.ID)] = len(out)
		out = append(out, Point{
			ID:          r.ID,
			Source:      r.Source(),
			Layer:       r.Layer,
			PoleID:      r.PoleID,
			Owner:       r.Owner,
			Description: r.Description,
			Height:      r.Height,
		})
	}
	for _, r := range records {
		if r.ParentID == "" || !Eligible(r) {
			continue
		}
		if i, ok := at[key(r.PoleID, r.Layer, r.ParentID)]; ok {
			out[i].Wires = append(out[i].Wires, r.ID)
		}
	}
	return out
}

// wireGroup is the transient clustering key of one open cluster.
type wireGroup struct {
	owner     string
	phase     attachment.Phase
	height    float64
	wires     []attachment.Record
	primaries int
}

func (g *wireGroup) tolerance() float64 {
	if g.primaries == 1 {
		return constants.StaggeredClusterTolerance
	}
	return constants.ClusterTolerance
}

func (g *wireGroup) mean() float64 {
	var sum float64
	for _, w := range g.wires {
		sum += w.Height
	}
	return sum / float64(len(g.wires))
}

// cluster groups loose wires of one pole and layer by owner, phase and
// centimetre-rounded height. A wire joins the nearest open cluster of its
// owner and phase within tolerance, else opens a new one.
func cluster(wires []attachment.Record) []*wireGroup {
	var groups []*wireGroup
	for _, w := range wires {
		h := roundCentimetre(w.Height)
		phase := w.Subtype.Phase()
		var best *wireGroup
		bestDelta := math.Inf(1)
		for _, g := range groups {
			if g.owner != w.Owner || g.phase != phase {
				continue
			}
			if d := math.Abs(h - g.height); d <= g.tolerance() && d < bestDelta {
				best, bestDelta = g, d
			}
		}
		if best == nil {
			best = &wireGroup{owner: w.Owner, phase: phase, height: h}
			groups = append(groups, best)
		}
		best.wires = append(best.wires, w)
		if phase == attachment.PhasePrimary {
			best.primaries++
		}
	}
	return groups
}

// Synthesize returns the Source-B points of records: explicit insulator
// points, with loose eligible wires clustered and either attached to a
// coinciding explicit point or promoted to a synthetic point.
func Synthesize(records []attachment.Record) []Point {
	explicit := Explicit(records)

	type scope struct {
		pole  string
		layer attachment.Layer
	}
	var order []scope
	loose := make(map[scope][]attachment.Record)
	for _, r := range records {
		if r.ParentID != "" || !Eligible(r) {
			continue
		}
		s := scope{r.PoleID, r.Layer}
		if _, ok := loose[s]; !ok {
			order = append(order, s)
		}
		loose[s] = append(loose[s], r)
	}

	out := explicit
	for _, s := range order {
		for n, g := range cluster(loose[s]) {
			if i := coinciding(out, s.pole, s.layer, g); i >= 0 {
				for _, w := range g.wires {
					out[i].Wires = append(out[i].Wires, w.ID)
				}
				continue
			}
			first := g.wires[0]
			p := Point{
				ID:          fmt.Sprintf("synthetic:%s:%s:%d", s.pole, s.layer, n+1),
				Source:      s.layer.Source(),
				Layer:       s.layer,
				PoleID:      s.pole,
				Owner:       g.owner,
				Description: first.Description,
				Height:      g.mean(),
				Synthetic:   true,
			}
			for _, w := range g.wires {
				p.Wires = append(p.Wires, w.ID)
			}
			out = append(out, p)
		}
	}
	return out
}

// coinciding returns the index of the nearest explicit point of the pole and
// layer within the cluster's tolerance, or -1.
func coinciding(pts []Point, pole string, layer attachment.Layer, g *wireGroup) int {
	best, bestDelta := -1, math.Inf(1)
	for i, p := range pts {
		if p.Synthetic || p.PoleID != pole || p.Layer != layer {
			continue
		}
		if d := math.Abs(p.Height - g.height); d <= g.tolerance() && d < bestDelta {
			best, bestDelta = i, d
		}
	}
	return best
}

func roundCentimetre(feet float64) float64 {
	return math.Round(feet/constants.ClusterRoundingStep) * constants.ClusterRoundingStep
}

func key(pole string, layer attachment.Layer, id string) string {
	return pole + "\x00" + string(layer) + "\x00" + id
}

func sameDescription(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
