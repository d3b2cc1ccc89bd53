// Package bucket joins normalized records from both sources into fixed
// resolution height buckets per pole, synthesizing the implicit insulators
// Source B omits.
package bucket

import (
	"fmt"
	"math"
	"sort"

	"github.com/agentstation/polemap/internal/utils/ptr"
	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/errors"
)

// steps is the number of buckets per foot.
var steps = math.Round(1 / constants.BucketResolution)

// Key returns the bucket key of a height: the height rounded to the bucket
// resolution. Key is idempotent.
func Key(height float64) float64 {
	return math.Round(height*steps) / steps
}

// Bucket holds the records of one pole at one height key, by layer.
type Bucket struct {
	Height   float64                                  `json:"height_ft" yaml:"height_ft"`
	Layers   map[attachment.Layer][]attachment.Record `json:"layers" yaml:"layers"`
	Severity attachment.Severity                      `json:"severity" yaml:"severity"`
	Delta    *float64                                 `json:"delta_ft,omitempty" yaml:"delta_ft,omitempty"`
}

// Layer returns the records of one layer.
func (b *Bucket) Layer(l attachment.Layer) []attachment.Record {
	return b.Layers[l]
}

// Real returns the non-synthetic records of one layer.
func (b *Bucket) Real(l attachment.Layer) []attachment.Record {
	return attachment.Filter(b.Layers[l], func(r attachment.Record) bool { return !r.Synthetic })
}

// PoleComparison is the bucketed view of one pole, pole top first.
type PoleComparison struct {
	PoleID        string   `json:"pole_id" yaml:"pole_id"`
	SecondaryCode string   `json:"secondary_code,omitempty" yaml:"secondary_code,omitempty"`
	Buckets       []Bucket `json:"buckets" yaml:"buckets"`
}

// Classifier assigns a severity to a filled bucket. ok is false when the
// delta is undefined.
type Classifier func(b *Bucket) (severity attachment.Severity, delta float64, ok bool)

// Join buckets records per pole. Poles are returned in first-appearance
// order and buckets by height descending. Cross-arm records are not
// bucketed; they are compared by the cross-arm matcher. Incoming synthetic
// insulators are dropped and re-derived.
func Join(records []attachment.Record, warnings *attachment.Warnings, classify Classifier) ([]PoleComparison, error) {
	if warnings == nil {
		return nil, errors.Required("warnings")
	}
	if classify == nil {
		return nil, errors.Required("classifier")
	}

	type pole struct {
		cmp     PoleComparison
		buckets map[float64]*Bucket
	}
	var order []*pole
	poles := make(map[string]*pole)

	for _, r := range records {
		if r.Kind == attachment.KindCrossArm || (r.Synthetic && r.Kind == attachment.KindInsulator) {
			continue
		}
		p, ok := poles[r.PoleID]
		if !ok {
			p = &pole{cmp: PoleComparison{PoleID: r.PoleID}, buckets: make(map[float64]*Bucket)}
			poles[r.PoleID] = p
			order = append(order, p)
		}
		if p.cmp.SecondaryCode == "" {
			p.cmp.SecondaryCode = r.SecondaryCode
		}
		key := Key(r.Height)
		b, ok := p.buckets[key]
		if !ok {
			b = &Bucket{Height: key, Layers: make(map[attachment.Layer][]attachment.Record)}
			p.buckets[key] = b
		}
		b.Layers[r.Layer] = append(b.Layers[r.Layer], r)
	}

	out := make([]PoleComparison, 0, len(order))
	for _, p := range order {
		keys := make([]float64, 0, len(p.buckets))
		for k := range p.buckets {
			keys = append(keys, k)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

		buckets := make([]Bucket, 0, len(keys))
		for _, k := range keys {
			b := p.buckets[k]
			for _, layer := range attachment.Layers {
				synthesize(p.cmp.PoleID, b, layer, warnings)
			}
			severity, delta, ok := classify(b)
			b.Severity = severity
			if ok {
				b.Delta = ptr.To(delta)
			}
			buckets = append(buckets, *b)
		}
		p.cmp.Buckets = buckets
		out = append(out, p.cmp)
	}
	return out, nil
}

// synthesize prepends an implicit insulator to a layer holding a real wire
// but no real insulator. Two or more real insulators alongside a wire are
// ambiguous; synthesis is skipped and a warning raised.
func synthesize(poleID string, b *Bucket, layer attachment.Layer, warnings *attachment.Warnings) {
	recs := b.Layers[layer]
	var wire *attachment.Record
	insulators := 0
	for i := range recs {
		switch {
		case recs[i].Is(attachment.KindWire) && wire == nil:
			wire = &recs[i]
		case recs[i].Is(attachment.KindInsulator):
			insulators++
		}
	}
	if wire == nil {
		return
	}
	if insulators > 1 {
		warnings.Add("pole %s: %d insulators share bucket %.1f ft on %s; wires cannot be assigned", poleID, insulators, b.Height, layer)
		return
	}
	if insulators == 1 {
		return
	}
	implicit := attachment.Record{
		PoleID:        wire.PoleID,
		SecondaryCode: wire.SecondaryCode,
		Layer:         layer,
		Kind:          attachment.KindInsulator,
		Description:   attachment.ImplicitDescription,
		Owner:         wire.Owner,
		Height:        b.Height,
		ID:            fmt.Sprintf("implicit:%s:%.1f", layer, b.Height),
		Subtype:       wire.Subtype,
		Synthetic:     true,
		PoleHeight:    wire.PoleHeight,
	}
	b.Layers[layer] = append([]attachment.Record{implicit}, recs...)
}
