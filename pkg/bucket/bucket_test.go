package bucket_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/bucket"
	"github.com/agentstation/polemap/pkg/errors"
	"github.com/agentstation/polemap/pkg/severity"
)

func rec(pole string, layer attachment.Layer, kind attachment.Kind, id string, h float64) attachment.Record {
	return attachment.Record{PoleID: pole, Layer: layer, Kind: kind, ID: id, Height: h, Description: id}
}

func TestKey(t *testing.T) {
	tests := []struct {
		h    float64
		want float64
	}{
		{30.0, 30.0},
		{30.04, 30.0},
		{30.051, 30.1},
		{30.06, 30.1},
		{24.96, 25.0},
		{0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.h), func(t *testing.T) {
			assert.InDelta(t, tt.want, bucket.Key(tt.h), 1e-9)
		})
	}
}

func TestKeyDeterministic(t *testing.T) {
	for i := 0; i <= 20000; i++ {
		h := float64(i) * 0.00731
		k := bucket.Key(h)
		assert.LessOrEqual(t, math.Abs(k-h), 0.05+1e-9, "nearest key to %v", h)
		assert.InDelta(t, math.Round(k*10), k*10, 1e-9, "key on the 0.1 ft grid")
		assert.Equal(t, k, bucket.Key(k), "idempotent at %v", h)
	}
}

func TestJoinImplicitInsulator(t *testing.T) {
	records := []attachment.Record{
		rec("P1", attachment.SourceBBaseline, attachment.KindWire, "w1", 25.0),
		rec("P1", attachment.SourceBBaseline, attachment.KindWire, "w2", 25.0),
		rec("P1", attachment.SourceABaseline, attachment.KindWire, "W9", 30.0),
	}
	w := attachment.NewWarnings()
	poles, err := bucket.Join(records, w, severity.Classify)
	require.NoError(t, err)
	require.Len(t, poles, 1)
	require.Len(t, poles[0].Buckets, 2)

	b := poles[0].Buckets[1]
	require.InDelta(t, 25.0, b.Height, 1e-9)

	layer := b.Layer(attachment.SourceBBaseline)
	require.Len(t, layer, 3)
	assert.True(t, layer[0].Synthetic)
	assert.Equal(t, attachment.KindInsulator, layer[0].Kind)
	assert.Equal(t, attachment.ImplicitDescription, layer[0].Description)
	assert.InDelta(t, 25.0, layer[0].Height, 1e-9)
	assert.Equal(t, "w1", layer[1].ID)
	assert.Equal(t, "w2", layer[2].ID)
	assert.Empty(t, b.Layer(attachment.SourceABaseline))
	assert.Equal(t, attachment.SeverityGrey, b.Severity)
	assert.Nil(t, b.Delta)
	assert.Zero(t, w.Len())
}

func TestJoinResynthesizes(t *testing.T) {
	stale := rec("P1", attachment.SourceBBaseline, attachment.KindInsulator, "implicit", 25.0)
	stale.Synthetic = true
	orphan := rec("P1", attachment.SourceBBaseline, attachment.KindInsulator, "implicit-orphan", 40.0)
	orphan.Synthetic = true
	records := []attachment.Record{
		stale,
		rec("P1", attachment.SourceBBaseline, attachment.KindWire, "w1", 25.0),
		orphan,
	}

	poles, err := bucket.Join(records, attachment.NewWarnings(), severity.Classify)
	require.NoError(t, err)
	require.Len(t, poles, 1)
	require.Len(t, poles[0].Buckets, 1, "a synthetic record alone does not open a bucket")

	layer := poles[0].Buckets[0].Layer(attachment.SourceBBaseline)
	require.Len(t, layer, 2)
	assert.True(t, layer[0].Synthetic)
	assert.Equal(t, attachment.ImplicitDescription, layer[0].Description)
	assert.Equal(t, "w1", layer[1].ID)
}

func TestJoinSuppression(t *testing.T) {
	t.Run("one real insulator", func(t *testing.T) {
		records := []attachment.Record{
			rec("P1", attachment.SourceABaseline, attachment.KindInsulator, "I1", 30.0),
			rec("P1", attachment.SourceABaseline, attachment.KindWire, "W1", 30.0),
		}
		w := attachment.NewWarnings()
		poles, err := bucket.Join(records, w, severity.Classify)
		require.NoError(t, err)
		assert.Len(t, poles[0].Buckets[0].Layer(attachment.SourceABaseline), 2)
		assert.Zero(t, w.Len())
	})

	t.Run("ambiguous insulators", func(t *testing.T) {
		records := []attachment.Record{
			rec("P1", attachment.SourceABaseline, attachment.KindInsulator, "I1", 30.0),
			rec("P1", attachment.SourceABaseline, attachment.KindInsulator, "I2", 30.02),
			rec("P1", attachment.SourceABaseline, attachment.KindWire, "W1", 30.0),
		}
		w := attachment.NewWarnings()
		poles, err := bucket.Join(records, w, severity.Classify)
		require.NoError(t, err)
		assert.Len(t, poles[0].Buckets[0].Layer(attachment.SourceABaseline), 3)
		require.Equal(t, 1, w.Len())
		assert.Contains(t, w.List()[0], "2 insulators share bucket 30.0 ft")
	})

	t.Run("insulators without wire", func(t *testing.T) {
		records := []attachment.Record{
			rec("P1", attachment.SourceABaseline, attachment.KindInsulator, "I1", 30.0),
			rec("P1", attachment.SourceABaseline, attachment.KindInsulator, "I2", 30.0),
		}
		w := attachment.NewWarnings()
		_, err := bucket.Join(records, w, severity.Classify)
		require.NoError(t, err)
		assert.Zero(t, w.Len())
	})
}

func TestJoinInvariant(t *testing.T) {
	kinds := []attachment.Kind{attachment.KindWire, attachment.KindInsulator, attachment.KindGuy, attachment.KindEquipment}
	var records []attachment.Record
	for i := 0; i < 400; i++ {
		pole := fmt.Sprintf("P%d", i%3)
		layer := attachment.Layers[(i/3)%4]
		kind := kinds[(i*7)%len(kinds)]
		h := 20 + float64((i*13)%60)/10
		records = append(records, rec(pole, layer, kind, fmt.Sprintf("r%d", i), h))
	}

	poles, err := bucket.Join(records, attachment.NewWarnings(), severity.Classify)
	require.NoError(t, err)
	require.Len(t, poles, 3)

	for _, p := range poles {
		for i, b := range p.Buckets {
			if i > 0 {
				assert.Greater(t, p.Buckets[i-1].Height, b.Height, "descending")
			}
			for _, layer := range attachment.Layers {
				var wires, insulators, synthetic int
				for _, r := range b.Layer(layer) {
					switch {
					case r.Synthetic:
						synthetic++
					case r.Kind == attachment.KindWire:
						wires++
					case r.Kind == attachment.KindInsulator:
						insulators++
					}
				}
				if wires > 0 && insulators == 0 {
					assert.Equal(t, 1, synthetic, "%s %.1f %s", p.PoleID, b.Height, layer)
					assert.True(t, b.Layer(layer)[0].Synthetic, "prepended")
				} else {
					assert.Zero(t, synthetic, "%s %.1f %s", p.PoleID, b.Height, layer)
				}
			}
		}
	}
}

func TestJoinOrdering(t *testing.T) {
	records := []attachment.Record{
		rec("P2", attachment.SourceABaseline, attachment.KindGuy, "g", 10),
		rec("P1", attachment.SourceABaseline, attachment.KindCrossArm, "xa", 36),
		rec("P1", attachment.SourceABaseline, attachment.KindEquipment, "e", 28),
		rec("P1", attachment.SourceBBaseline, attachment.KindEquipment, "e", 40),
	}
	records[2].SecondaryCode = "M-1"

	poles, err := bucket.Join(records, attachment.NewWarnings(), severity.Classify)
	require.NoError(t, err)
	require.Len(t, poles, 2)
	assert.Equal(t, "P2", poles[0].PoleID, "first appearance order")
	assert.Equal(t, "P1", poles[1].PoleID)
	assert.Equal(t, "M-1", poles[1].SecondaryCode)

	heights := []float64{}
	for _, b := range poles[1].Buckets {
		heights = append(heights, b.Height)
	}
	assert.Equal(t, []float64{40, 28}, heights, "cross-arms are not bucketed")
}

func TestJoinRequiresCollaborators(t *testing.T) {
	_, err := bucket.Join(nil, nil, severity.Classify)
	assert.True(t, errors.IsValidationError(err))

	_, err = bucket.Join(nil, attachment.NewWarnings(), nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestGroupRecords(t *testing.T) {
	base := attachment.SourceABaseline
	linked := rec("P1", base, attachment.KindWire, "W1", 35.5)
	linked.ParentID = "I1"

	records := []attachment.Record{
		linked,
		rec("P1", base, attachment.KindInsulator, "I1", 36.0),
		rec("P1", base, attachment.KindInsulator, "I2", 30.0),
		rec("P1", base, attachment.KindWire, "W2", 30.02),
		rec("P1", base, attachment.KindInsulator, "I3", 20.0),
		rec("P1", base, attachment.KindInsulator, "I4", 20.0),
		rec("P1", base, attachment.KindWire, "W3", 20.0),
		rec("P1", attachment.SourceBBaseline, attachment.KindWire, "w4", 30.0),
		rec("P1", base, attachment.KindGuy, "G1", 10.0),
	}

	groups := bucket.GroupRecords(records)

	heads := make([]string, 0, len(groups))
	for _, g := range groups {
		heads = append(heads, g.Head.ID)
	}
	assert.Equal(t, []string{"I1", "I2", "I3", "I4", "W3", "w4", "G1"}, heads)

	require.Len(t, groups[0].Children, 1)
	assert.Equal(t, "W1", groups[0].Children[0].ID, "explicit parent link")
	require.Len(t, groups[1].Children, 1)
	assert.Equal(t, "W2", groups[1].Children[0].ID, "unique insulator at height")
	assert.Empty(t, groups[2].Children, "two insulators at height: no inference")
	assert.Empty(t, groups[5].Children, "layers are not mixed")
}
