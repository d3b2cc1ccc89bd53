package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/polemap/pkg/attachment"
)

const (
	aBase = attachment.SourceABaseline
	bBase = attachment.SourceBBaseline
	bProp = attachment.SourceBProposed
)

func wire(layer attachment.Layer, id, owner string, class attachment.Class, h float64) attachment.Record {
	return attachment.Record{PoleID: "P1", Layer: layer, Kind: attachment.KindWire, ID: id, Owner: owner, Subtype: class, Height: h, Description: string(class)}
}

func insulator(layer attachment.Layer, id, owner, desc string, h float64) attachment.Record {
	return attachment.Record{PoleID: "P1", Layer: layer, Kind: attachment.KindInsulator, ID: id, Owner: owner, Height: h, Description: desc}
}

func child(r attachment.Record, parent string) attachment.Record {
	r.ParentID = parent
	return r
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		r    attachment.Record
		want bool
	}{
		{"primary wire", wire(bBase, "w", "X", attachment.ClassPrimary, 30), true},
		{"unknown wire", wire(bBase, "w", "X", attachment.ClassUnknown, 30), true},
		{"comm drop", wire(bBase, "w", "X", attachment.ClassCommDrop, 30), false},
		{"pole top", wire(bBase, "w", "X", attachment.ClassPoleTop, 30), false},
		{"insulator", insulator(bBase, "i", "X", "Pin", 30), false},
		{"guy", attachment.Record{Kind: attachment.KindGuy, Subtype: attachment.ClassGuy}, false},
		{"synthetic", attachment.Record{Kind: attachment.KindWire, Synthetic: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.r))
		})
	}
}

func TestCluster(t *testing.T) {
	t.Run("normal tolerance", func(t *testing.T) {
		groups := cluster([]attachment.Record{
			wire(bBase, "a", "CPS Energy", attachment.ClassNeutral, 30.0),
			wire(bBase, "b", "CPS Energy", attachment.ClassNeutral, 30.1),
			wire(bBase, "c", "CPS Energy", attachment.ClassNeutral, 30.3),
		})
		require.Len(t, groups, 2, "0.1 ft joins, 0.3 ft exceeds 0.05 m")
		assert.Len(t, groups[0].wires, 2)
	})

	t.Run("staggered primary", func(t *testing.T) {
		groups := cluster([]attachment.Record{
			wire(bBase, "a", "CPS Energy", attachment.ClassPrimary, 36.0),
			wire(bBase, "b", "CPS Energy", attachment.ClassPrimary, 36.3),
			wire(bBase, "c", "CPS Energy", attachment.ClassPrimary, 36.3),
		})
		require.Len(t, groups, 2, "widened only while the cluster holds one primary")
		assert.Len(t, groups[0].wires, 2)
		assert.Len(t, groups[1].wires, 1)
	})

	t.Run("owner and phase separate", func(t *testing.T) {
		groups := cluster([]attachment.Record{
			wire(bBase, "a", "CPS Energy", attachment.ClassSecondary, 25.0),
			wire(bBase, "b", "AT&T", attachment.ClassSecondary, 25.0),
			wire(bBase, "c", "CPS Energy", attachment.ClassNeutral, 25.0),
			wire(bBase, "d", "CPS Energy", attachment.ClassService, 25.0),
		})
		require.Len(t, groups, 3, "service shares the secondary phase")
		assert.Len(t, groups[0].wires, 2)
	})
}

func TestSynthesize(t *testing.T) {
	records := []attachment.Record{
		insulator(bBase, "i1", "CPS Energy", "Pin", 36.0),
		child(wire(bBase, "w1", "CPS Energy", attachment.ClassPrimary, 36.0), "i1"),
		wire(bBase, "w2", "CPS Energy", attachment.ClassPrimary, 36.05),
		wire(bBase, "w3", "CPS Energy", attachment.ClassNeutral, 30.0),
		wire(bBase, "w4", "CPS Energy", attachment.ClassNeutral, 30.02),
		wire(bBase, "w5", "AT&T", attachment.ClassCommDrop, 18.0),
		wire(bProp, "w3", "CPS Energy", attachment.ClassNeutral, 31.0),
	}

	pts := Synthesize(records)
	require.Len(t, pts, 3)

	assert.Equal(t, "i1", pts[0].ID)
	assert.False(t, pts[0].Synthetic)
	assert.Equal(t, []string{"w1", "w2"}, pts[0].Wires, "coinciding cluster attaches to explicit point")

	assert.True(t, pts[1].Synthetic)
	assert.Equal(t, bBase, pts[1].Layer)
	assert.Equal(t, []string{"w3", "w4"}, pts[1].Wires)
	assert.InDelta(t, 30.01, pts[1].Height, 1e-9)
	assert.Equal(t, "CPS Energy", pts[1].Owner)

	assert.True(t, pts[2].Synthetic)
	assert.Equal(t, bProp, pts[2].Layer)
	assert.NotEqual(t, pts[1].ID, pts[2].ID)
}

func TestCompare(t *testing.T) {
	records := []attachment.Record{
		insulator(aBase, "I1", "CPS Energy", "Pin", 36.0),
		insulator(aBase, "I3", "CPS Energy", "Spool", 30.0),
		insulator(aBase, "I4", "CPS Energy", "Spool", 20.0),
		insulator(bBase, "i1", "CPS Energy", "pin", 36.0),
		wire(bBase, "w3", "CPS Energy", attachment.ClassNeutral, 30.3),
		wire(bBase, "w9", "AT&T", attachment.ClassCommunication, 25.0),
		insulator(bProp, "i1", "CPS Energy", "pin", 20.0),
	}
	res := Build(records)
	require.Len(t, res.A, 3)
	require.Len(t, res.B, 4)

	cs := res.Comparisons
	require.Len(t, cs, 5)

	assert.Equal(t, Exact, cs[0].Category)
	assert.Equal(t, "i1", cs[0].B.ID)
	assert.InDelta(t, 0, *cs[0].Delta, 1e-9)

	assert.Equal(t, HeightOnly, cs[1].Category)
	assert.True(t, cs[1].B.Synthetic)
	assert.InDelta(t, 0.3, *cs[1].Delta, 1e-9)

	assert.Equal(t, SourceAOnly, cs[2].Category, "proposed points never pair with baseline")
	assert.Nil(t, cs[2].B)

	assert.Equal(t, SourceBOnly, cs[3].Category)
	assert.Equal(t, "proposed", cs[3].Layer)
	assert.Equal(t, SourceBOnly, cs[4].Category)
	assert.Equal(t, "AT&T", cs[4].B.Owner)

	counts := Count(cs)
	assert.Equal(t, 1, counts[Exact])
	assert.Equal(t, 2, counts[SourceBOnly])
}

func TestCompareExactBeatsNearer(t *testing.T) {
	a := []Point{
		{ID: "A1", PoleID: "P1", Layer: aBase, Owner: "X", Description: "Pin", Height: 30.0},
		{ID: "A2", PoleID: "P1", Layer: aBase, Owner: "X", Description: "Spool", Height: 30.4},
	}
	b := []Point{
		{ID: "B1", PoleID: "P1", Layer: bBase, Owner: "X", Description: "Spool", Height: 30.4},
	}
	cs := Compare(a, b)
	require.Len(t, cs, 2)
	assert.Equal(t, SourceAOnly, cs[0].Category, "B1 claimed by the exact pass")
	assert.Equal(t, Exact, cs[1].Category)
}
