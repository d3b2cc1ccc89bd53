// Package fuzzy finds, for every Source-A attachment, the best corresponding
// Source-B attachment for the detailed comparison view.
//
// Candidates qualify through one of three tiers, each with a small priority
// bonus subtracted from the height delta. The candidate with the smallest
// adjusted score wins; on equal scores the first one found is kept. Source-B
// records are not claimed, so one may be the best match of several Source-A
// records.
package fuzzy

import (
	"math"

	"github.com/agentstation/polemap/internal/utils/ptr"
	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/normalize"
)

// Tier is the rule under which a candidate qualified.
type Tier string

const (
	// TierInsulator pairs an insulator with an insulator.
	TierInsulator Tier = "insulator"
	// TierDirect pairs two non-insulators of the same kind.
	TierDirect Tier = "direct"
	// TierFallback pairs an insulator with a wire.
	TierFallback Tier = "fallback"
)

// Bonus returns the priority bonus of a tier in feet.
func (t Tier) Bonus() float64 {
	switch t {
	case TierInsulator:
		return constants.InsulatorPriorityBonus
	case TierDirect:
		return constants.DirectPriorityBonus
	default:
		return constants.FallbackPriorityBonus
	}
}

// Status tags a detail row.
type Status string

const (
	Matched     Status = "matched"
	SourceAOnly Status = "SourceA-only"
	SourceBOnly Status = "SourceB-only"
)

// Detail is one row of the detailed comparison.
type Detail struct {
	PoleID string             `json:"pole_id" yaml:"pole_id"`
	Status Status             `json:"status" yaml:"status"`
	Tier   Tier               `json:"tier,omitempty" yaml:"tier,omitempty"`
	A      *attachment.Record `json:"a,omitempty" yaml:"a,omitempty"`
	B      *attachment.Record `json:"b,omitempty" yaml:"b,omitempty"`
	Delta  *float64           `json:"delta_ft,omitempty" yaml:"delta_ft,omitempty"`
}

// tier reports under which tier b qualifies for a, if any.
func tier(a, b attachment.Record) (Tier, bool) {
	switch {
	case a.Kind == attachment.KindInsulator && b.Kind == attachment.KindInsulator:
		return TierInsulator, true
	case a.Kind == b.Kind:
		return TierDirect, true
	case a.Kind == attachment.KindInsulator && b.Kind == attachment.KindWire,
		a.Kind == attachment.KindWire && b.Kind == attachment.KindInsulator:
		return TierFallback, true
	default:
		return "", false
	}
}

// ownerAgrees relaxes owner equality: an unresolved owner on either side
// passes, and guys and communication drops skip the check.
func ownerAgrees(a, b attachment.Record) bool {
	if ownerExempt(a) || ownerExempt(b) {
		return true
	}
	if !normalize.Resolved(a.Owner) || !normalize.Resolved(b.Owner) {
		return true
	}
	return a.Owner == b.Owner
}

func ownerExempt(r attachment.Record) bool {
	return r.Kind == attachment.KindGuy || r.Subtype == attachment.ClassGuy || r.Subtype == attachment.ClassCommDrop
}

// Tolerance returns the height window for a pair.
func Tolerance(a, b attachment.Record) float64 {
	if a.Subtype.IsCommunication() || b.Subtype.IsCommunication() {
		return constants.CommunicationDetailTolerance
	}
	return constants.DetailTolerance
}

// Best returns the index into b of the best candidate for a, or -1.
func Best(a attachment.Record, b []attachment.Record) (int, Tier) {
	best, bestTier, bestScore := -1, Tier(""), math.Inf(1)
	for j, rb := range b {
		if rb.PoleID != a.PoleID || rb.Layer != a.Layer.Counterpart() {
			continue
		}
		t, ok := tier(a, rb)
		if !ok || !ownerAgrees(a, rb) {
			continue
		}
		delta := math.Abs(a.Height - rb.Height)
		if delta > Tolerance(a, rb) {
			continue
		}
		if score := delta - t.Bonus(); score < bestScore {
			best, bestTier, bestScore = j, t, score
		}
	}
	return best, bestTier
}

// Match builds the detail rows: each Source-A record with its best
// candidate, followed by Source-B records no Source-A record chose.
// Synthetic and cross-arm records are not compared.
func Match(a, b []attachment.Record) []Detail {
	a = attachment.Filter(a, detailed)
	b = attachment.Filter(b, detailed)

	chosen := make([]bool, len(b))
	out := make([]Detail, 0, len(a)+len(b))
	for i := range a {
		ra := a[i]
		d := Detail{PoleID: ra.PoleID, Status: SourceAOnly, A: &ra}
		if j, t := Best(ra, b); j >= 0 {
			rb := b[j]
			d.Status, d.Tier, d.B = Matched, t, &rb
			d.Delta = ptr.To(math.Abs(ra.Height - rb.Height))
			chosen[j] = true
		}
		out = append(out, d)
	}
	for j := range b {
		if !chosen[j] {
			rb := b[j]
			out = append(out, Detail{PoleID: rb.PoleID, Status: SourceBOnly, B: &rb})
		}
	}
	return out
}

// Build splits records by source and matches them.
func Build(records []attachment.Record) []Detail {
	var a, b []attachment.Record
	for _, r := range records {
		if r.Source() == attachment.SourceA {
			a = append(a, r)
		} else {
			b = append(b, r)
		}
	}
	return Match(a, b)
}

func detailed(r attachment.Record) bool {
	return !r.Synthetic && r.Kind != attachment.KindCrossArm
}
