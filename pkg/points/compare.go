package points

import (
	"math"

	"github.com/agentstation/polemap/internal/utils/ptr"
	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
)

// Category is the outcome of comparing one attachment point.
type Category string

const (
	// Exact means owner, whole-inch height and description agree.
	Exact Category = "exact"
	// HeightOnly means the points agree on height within tolerance only.
	HeightOnly Category = "height"
	// SourceAOnly means no Source-B point corresponds.
	SourceAOnly Category = "SourceA-only"
	// SourceBOnly means no Source-A point corresponds.
	SourceBOnly Category = "SourceB-only"
)

// Comparison pairs a Source-A point with its Source-B counterpart.
type Comparison struct {
	PoleID   string   `json:"pole_id" yaml:"pole_id"`
	Layer    string   `json:"layer" yaml:"layer"`
	Category Category `json:"category" yaml:"category"`
	A        *Point   `json:"a,omitempty" yaml:"a,omitempty"`
	B        *Point   `json:"b,omitempty" yaml:"b,omitempty"`
	Delta    *float64 `json:"delta_ft,omitempty" yaml:"delta_ft,omitempty"`
}

// Result holds both point lists and their comparison.
type Result struct {
	A           []Point      `json:"source_a" yaml:"source_a"`
	B           []Point      `json:"source_b" yaml:"source_b"`
	Comparisons []Comparison `json:"comparisons" yaml:"comparisons"`
}

// Build derives points for both sources from normalized records and compares
// corresponding layers pole by pole.
func Build(records []attachment.Record) Result {
	var a, b []attachment.Record
	for _, r := range records {
		if r.Source() == attachment.SourceA {
			a = append(a, r)
		} else {
			b = append(b, r)
		}
	}
	res := Result{A: Explicit(a), B: Synthesize(b)}
	res.Comparisons = Compare(res.A, res.B)
	return res
}

// Compare matches Source-A points to Source-B points of the same pole and
// corresponding layer. Exact matches are claimed first across all points,
// then remaining points pair by nearest height within tolerance. Unclaimed
// points are reported one-sided, Source-A first, each in input order.
func Compare(a, b []Point) []Comparison {
	claimed := make([]bool, len(b))
	match := make([]int, len(a))
	category := make([]Category, len(a))
	for i := range match {
		match[i] = -1
	}

	for i, pa := range a {
		for j, pb := range b {
			if claimed[j] || !corresponds(pa, pb) {
				continue
			}
			if pa.Owner == pb.Owner && pa.Inches() == pb.Inches() && sameDescription(pa.Description, pb.Description) {
				match[i], category[i], claimed[j] = j, Exact, true
				break
			}
		}
	}

	for i, pa := range a {
		if match[i] >= 0 {
			continue
		}
		best, bestDelta := -1, math.Inf(1)
		for j, pb := range b {
			if claimed[j] || !corresponds(pa, pb) {
				continue
			}
			if d := math.Abs(pa.Height - pb.Height); d <= constants.PointMatchTolerance && d < bestDelta {
				best, bestDelta = j, d
			}
		}
		if best >= 0 {
			match[i], category[i], claimed[best] = best, HeightOnly, true
		}
	}

	out := make([]Comparison, 0, len(a)+len(b))
	for i := range a {
		pa := a[i]
		c := Comparison{PoleID: pa.PoleID, Layer: layerPair(pa.Layer), Category: SourceAOnly, A: &pa}
		if j := match[i]; j >= 0 {
			pb := b[j]
			c.Category, c.B = category[i], &pb
			c.Delta = ptr.To(math.Abs(pa.Height - pb.Height))
		}
		out = append(out, c)
	}
	for j := range b {
		if claimed[j] {
			continue
		}
		pb := b[j]
		out = append(out, Comparison{PoleID: pb.PoleID, Layer: layerPair(pb.Layer), Category: SourceBOnly, B: &pb})
	}
	return out
}

func corresponds(a, b Point) bool {
	return a.PoleID == b.PoleID && a.Layer.Counterpart() == b.Layer
}

// layerPair names the design state shared by a layer and its counterpart.
func layerPair(l attachment.Layer) string {
	if l.IsProposed() {
		return "proposed"
	}
	return "baseline"
}

// Count tallies comparisons by category.
func Count(cs []Comparison) map[Category]int {
	out := make(map[Category]int)
	for _, c := range cs {
		out[c.Category]++
	}
	return out
}
