// Package severity classifies the cross-source height agreement of a bucket.
package severity

import (
	"math"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/bucket"
	"github.com/agentstation/polemap/pkg/constants"
)

// pairs are the corresponding layers compared across sources.
var pairs = [][2]attachment.Layer{
	{attachment.SourceABaseline, attachment.SourceBBaseline},
	{attachment.SourceAProposed, attachment.SourceBProposed},
}

// Classify computes the bucket delta, the larger of the baseline and proposed
// pair deltas, and its severity. A pair contributes only when both layers hold
// real records. With no contributing pair the bucket is grey and ok is false.
func Classify(b *bucket.Bucket) (attachment.Severity, float64, bool) {
	delta, ok := Delta(b)
	if !ok {
		return attachment.SeverityGrey, 0, false
	}
	return ForDelta(delta), delta, true
}

// Delta returns the bucket's overall delta in feet.
func Delta(b *bucket.Bucket) (float64, bool) {
	var (
		largest float64
		ok      bool
	)
	for _, pair := range pairs {
		a, aok := mean(b.Layers[pair[0]])
		c, cok := mean(b.Layers[pair[1]])
		if !aok || !cok {
			continue
		}
		if d := math.Abs(a - c); !ok || d > largest {
			largest = d
		}
		ok = true
	}
	return largest, ok
}

// ForDelta maps a delta in feet to a severity.
func ForDelta(delta float64) attachment.Severity {
	switch {
	case delta <= constants.GreenMaxDelta:
		return attachment.SeverityGreen
	case delta <= constants.AmberMaxDelta:
		return attachment.SeverityAmber
	default:
		return attachment.SeverityRed
	}
}

// mean averages the heights of the non-synthetic records.
func mean(records []attachment.Record) (float64, bool) {
	var sum float64
	n := 0
	for _, r := range records {
		if r.Synthetic {
			continue
		}
		sum += r.Height
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Tally counts buckets per severity across pole comparisons.
type Tally map[attachment.Severity]int

// Count tallies every bucket of the given poles.
func Count(poles []bucket.PoleComparison) Tally {
	t := Tally{}
	for _, p := range poles {
		for _, b := range p.Buckets {
			t[b.Severity]++
		}
	}
	return t
}

// Worst returns the worst severity of a pole; grey when nothing compares.
func Worst(p bucket.PoleComparison) attachment.Severity {
	worst := attachment.SeverityGrey
	for _, b := range p.Buckets {
		if b.Severity.Rank() > worst.Rank() {
			worst = b.Severity
		}
	}
	return worst
}
