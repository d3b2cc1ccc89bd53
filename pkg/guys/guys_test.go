package guys

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/logging"
)

func guy(layer attachment.Layer, id, owner string, inches float64) attachment.Record {
	return attachment.Record{PoleID: "P1", Layer: layer, Kind: attachment.KindGuy, ID: id, Owner: owner, Height: inches / 12, Subtype: attachment.ClassGuy}
}

func TestNearMissNotMatched(t *testing.T) {
	tl := logging.NewTestLogger(t)
	m := NewMatcher(tl.Logger)

	results := m.Match(
		[]attachment.Record{guy(attachment.SourceABaseline, "G1", "CPS Energy", 120)},
		[]attachment.Record{guy(attachment.SourceBBaseline, "g1", "CPS Energy", 121)},
	)
	require.Len(t, results, 2)
	assert.Equal(t, SourceAOnly, results[0].Status)
	assert.Equal(t, Key{Owner: "CPS Energy", Inches: 120}, results[0].Key)
	assert.Equal(t, SourceBOnly, results[1].Status)
	assert.Equal(t, 121, results[1].Key.Inches)
	assert.Zero(t, Count(results))

	assert.Equal(t, 1, tl.Count())
	assert.True(t, tl.Contains("guy near miss"))
	assert.True(t, tl.Contains(`"a_inches":120`))
	assert.True(t, tl.Contains(`"level":"info"`))
}

func TestMatch(t *testing.T) {
	tl := logging.NewTestLogger(t)
	m := NewMatcher(tl.Logger)

	a := []attachment.Record{
		guy(attachment.SourceABaseline, "G1", "CPS Energy", 120),
		guy(attachment.SourceABaseline, "G2", "CPS Energy", 120),
		guy(attachment.SourceABaseline, "G3", "AT&T", 180),
		guy(attachment.SourceAProposed, "G4", "AT&T", 180),
		{PoleID: "P1", Layer: attachment.SourceABaseline, Kind: attachment.KindWire, ID: "W1", Height: 10},
	}
	b := []attachment.Record{
		guy(attachment.SourceBBaseline, "g1", "CPS Energy", 120.4),
		guy(attachment.SourceBBaseline, "g3", "AT&T", 180),
		guy(attachment.SourceBBaseline, "g2", "CPS Energy", 119.6),
		guy(attachment.SourceBBaseline, "g5", "AT&T", 186),
	}

	results := m.Match(a, b)
	require.Len(t, results, 5)

	assert.Equal(t, Matched, results[0].Status)
	assert.Equal(t, "g1", results[0].B.ID)
	assert.Equal(t, Matched, results[1].Status, "keys are a multiset")
	assert.Equal(t, "g2", results[1].B.ID)
	assert.Equal(t, Matched, results[2].Status)
	assert.Equal(t, SourceAOnly, results[3].Status, "proposed guy has no proposed counterpart")
	assert.Equal(t, SourceBOnly, results[4].Status)
	assert.Equal(t, "g5", results[4].B.ID)

	assert.Equal(t, 3, Count(results))
	assert.Zero(t, tl.Count(), "6 inches is not a near miss")
}

func TestMatchSymmetry(t *testing.T) {
	owners := []string{"CPS Energy", "AT&T", ""}
	var a, b []attachment.Record
	for i := 0; i < 60; i++ {
		a = append(a, guy(attachment.SourceABaseline, fmt.Sprintf("A%d", i), owners[i%3], float64(100+(i*7)%15)))
		b = append(b, guy(attachment.SourceBBaseline, fmt.Sprintf("B%d", i), owners[(i/2)%3], float64(100+(i*11)%15)))
	}

	m := NewMatcher(logging.NewNopLogger())
	forward := Count(m.Match(a, b))

	// Relabel each side as the other source.
	swap := func(rs []attachment.Record) []attachment.Record {
		out := make([]attachment.Record, len(rs))
		for i, r := range rs {
			r.Layer = r.Layer.Counterpart()
			out[i] = r
		}
		return out
	}
	backward := Count(m.Match(swap(b), swap(a)))

	assert.Positive(t, forward)
	assert.Equal(t, forward, backward)
	assert.Equal(t, forward, Count(m.Match(b, a)), "argument order alone")
}

func TestBuild(t *testing.T) {
	m := NewMatcher(logging.NewNopLogger())
	results := m.Build([]attachment.Record{
		guy(attachment.SourceBBaseline, "g1", "X", 120),
		guy(attachment.SourceABaseline, "G1", "X", 120),
	})
	require.Len(t, results, 1)
	assert.Equal(t, Matched, results[0].Status)
	assert.Equal(t, "G1", results[0].A.ID)
}
