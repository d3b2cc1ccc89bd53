package attachment

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayers(t *testing.T) {
	tests := []struct {
		layer       Layer
		source      Source
		proposed    bool
		counterpart Layer
	}{
		{SourceABaseline, SourceA, false, SourceBBaseline},
		{SourceAProposed, SourceA, true, SourceBProposed},
		{SourceBBaseline, SourceB, false, SourceABaseline},
		{SourceBProposed, SourceB, true, SourceAProposed},
	}
	for _, tt := range tests {
		t.Run(tt.layer.String(), func(t *testing.T) {
			assert.Equal(t, tt.source, tt.layer.Source())
			assert.Equal(t, tt.proposed, tt.layer.IsProposed())
			assert.Equal(t, tt.counterpart, tt.layer.Counterpart())
			assert.Equal(t, tt.layer, tt.layer.Counterpart().Counterpart())
			assert.Equal(t, tt.layer, tt.source.Layer(tt.proposed))
		})
	}
}

func TestRoundInches(t *testing.T) {
	tests := []struct {
		feet float64
		want int
	}{
		{0, 0},
		{10, 120},
		{10.04, 120},
		{10.05, 121},
		{-1.0 / 12, -1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.feet), func(t *testing.T) {
			assert.Equal(t, tt.want, RoundInches(tt.feet))
		})
	}
	assert.Equal(t, 121, Record{Height: 121.0 / 12}.HeightInches())
}

func TestRecordIs(t *testing.T) {
	r := Record{Kind: KindInsulator}
	assert.True(t, r.Is(KindInsulator))
	assert.False(t, r.Is(KindWire))

	r.Synthetic = true
	assert.False(t, r.Is(KindInsulator), "synthetic records are not real")
	assert.Contains(t, r.String(), "synthetic")
}

func TestFilterAndByLayer(t *testing.T) {
	records := []Record{
		{ID: "1", Layer: SourceABaseline},
		{ID: "2", Layer: SourceBBaseline},
		{ID: "3", Layer: SourceABaseline},
	}
	got := ByLayer(records, SourceABaseline)
	assert.Equal(t, []Record{records[0], records[2]}, got)
	assert.Empty(t, ByLayer(records, SourceBProposed))
}

func TestClass(t *testing.T) {
	assert.True(t, ClassCommDrop.IsCommunication())
	assert.True(t, ClassCommunication.IsCommunication())
	assert.False(t, ClassPrimary.IsCommunication())
	assert.Equal(t, PhaseSecondary, ClassService.Phase())
	assert.Equal(t, PhaseOther, ClassGuy.Phase())
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityGrey, SeverityGreen, SeverityAmber, SeverityRed}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Rank(), order[i].Rank())
	}
}

func TestWarnings(t *testing.T) {
	w := NewWarnings()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Add("warning %d", i)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, w.Len())

	list := w.List()
	list[0] = "changed"
	assert.NotEqual(t, "changed", w.List()[0], "List returns a copy")
}
