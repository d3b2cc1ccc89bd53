// Package guys matches down-guys across sources on an exact key of owner and
// whole-inch height. There is no tolerance: guys a few inches apart are
// logged as near misses for operators and never matched.
package guys

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/logging"
)

// Key identifies a guy for matching.
type Key struct {
	Owner  string `json:"owner" yaml:"owner"`
	Inches int    `json:"inches" yaml:"inches"`
}

// KeyOf returns the matching key of a guy record.
func KeyOf(r attachment.Record) Key {
	return Key{Owner: r.Owner, Inches: r.HeightInches()}
}

// Status tags a match result.
type Status string

const (
	Matched     Status = "matched"
	SourceAOnly Status = "SourceA-only"
	SourceBOnly Status = "SourceB-only"
)

// Result is one matched pair or one unmatched guy.
type Result struct {
	PoleID string             `json:"pole_id" yaml:"pole_id"`
	Status Status             `json:"status" yaml:"status"`
	Key    Key                `json:"key" yaml:"key"`
	A      *attachment.Record `json:"a,omitempty" yaml:"a,omitempty"`
	B      *attachment.Record `json:"b,omitempty" yaml:"b,omitempty"`
}

// NearMiss is an unmatched pair whose heights differ by only a few inches.
type NearMiss struct {
	PoleID string
	Owner  string
	A, B   int
}

// Matcher matches guys and reports near misses.
type Matcher struct {
	logger *zerolog.Logger
}

// NewMatcher creates a matcher logging near misses to logger, or to the
// default logger when nil.
func NewMatcher(logger *zerolog.Logger) *Matcher {
	return &Matcher{logger: logging.OrDefault(logger)}
}

// Build splits records by source and matches their guys.
func (m *Matcher) Build(records []attachment.Record) []Result {
	var a, b []attachment.Record
	for _, r := range records {
		if r.Source() == attachment.SourceA {
			a = append(a, r)
		} else {
			b = append(b, r)
		}
	}
	return m.Match(a, b)
}

// Match pairs guys of the same pole and corresponding layer with equal keys.
// Keys are a multiset: two guys with one key on each side make two matches.
// Results list the first side in input order, then unmatched guys of the
// second side.
func (m *Matcher) Match(a, b []attachment.Record) []Result {
	a = attachment.Filter(a, isGuy)
	b = attachment.Filter(b, isGuy)

	type slot struct {
		pole  string
		layer attachment.Layer
		key   Key
	}
	open := make(map[slot][]int)
	for j, r := range b {
		s := slot{r.PoleID, r.Layer, KeyOf(r)}
		open[s] = append(open[s], j)
	}

	claimed := make([]bool, len(b))
	out := make([]Result, 0, len(a)+len(b))
	var unmatched []int
	for i := range a {
		ra := a[i]
		s := slot{ra.PoleID, ra.Layer.Counterpart(), KeyOf(ra)}
		res := Result{PoleID: ra.PoleID, Status: SourceAOnly, Key: s.key, A: &ra}
		if q := open[s]; len(q) > 0 {
			j := q[0]
			open[s] = q[1:]
			claimed[j] = true
			rb := b[j]
			res.Status, res.B = Matched, &rb
		} else {
			unmatched = append(unmatched, i)
		}
		out = append(out, res)
	}
	for j := range b {
		if !claimed[j] {
			rb := b[j]
			out = append(out, Result{PoleID: rb.PoleID, Status: SourceBOnly, Key: KeyOf(rb), B: &rb})
		}
	}

	for _, nm := range nearMisses(a, b, unmatched, claimed) {
		m.logger.Info().
			Str("pole_id", nm.PoleID).
			Str("owner", nm.Owner).
			Int("a_inches", nm.A).
			Int("b_inches", nm.B).
			Msg("guy near miss not matched")
	}
	return out
}

// nearMisses finds unmatched pairs with equal owner whose heights differ by
// GuyNearMissMinInches to GuyNearMissMaxInches.
func nearMisses(a, b []attachment.Record, unmatched []int, claimed []bool) []NearMiss {
	var out []NearMiss
	for _, i := range unmatched {
		ka := KeyOf(a[i])
		for j, rb := range b {
			if claimed[j] || rb.PoleID != a[i].PoleID || rb.Layer != a[i].Layer.Counterpart() {
				continue
			}
			kb := KeyOf(rb)
			if kb.Owner != ka.Owner {
				continue
			}
			diff := kb.Inches - ka.Inches
			if diff < 0 {
				diff = -diff
			}
			if diff >= constants.GuyNearMissMinInches && diff <= constants.GuyNearMissMaxInches {
				out = append(out, NearMiss{PoleID: a[i].PoleID, Owner: ka.Owner, A: ka.Inches, B: kb.Inches})
			}
		}
	}
	return out
}

// Count returns the number of matched pairs.
func Count(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == Matched {
			n++
		}
	}
	return n
}

func isGuy(r attachment.Record) bool {
	return r.Is(attachment.KindGuy)
}
