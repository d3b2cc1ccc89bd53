package normalize

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/errors"
)

func TestUnitRoundTrip(t *testing.T) {
	for h := 0.0; h <= 80.0; h += 0.37 {
		m := FromFeet(h, Metre)
		assert.InDelta(t, h, ToFeet(m, Metre), 1e-6, "feet->metres->feet %v", h)

		in := FromFeet(h, Inch)
		assert.InDelta(t, h, ToFeet(in, Inch), 1e-6, "feet->inches->feet %v", h)

		assert.InDelta(t, m, FromFeet(ToFeet(m, Metre), Metre), 1e-6, "metres->feet->metres %v", m)
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
		ok   bool
	}{
		{"METRE", Metre, true},
		{"meter", Metre, true},
		{" m ", Metre, true},
		{"FOOT", Foot, true},
		{"ft", Foot, true},
		{"INCH", Inch, true},
		{"in", Inch, true},
		{"furlong", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseUnit(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverterMemo(t *testing.T) {
	c, err := NewConverter(2)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, c.Feet(3.048, Metre), 1e-9)
	assert.InDelta(t, 10.0, c.Feet(3.048, Metre), 1e-9)
	assert.Equal(t, 1, c.Cached())

	assert.InDelta(t, 10.0, c.Feet(120, Inch), 1e-9)
	assert.InDelta(t, 2.0, c.Feet(24, Inch), 1e-9)
	assert.Equal(t, 2, c.Cached(), "cache is bounded")

	assert.Equal(t, 7.5, c.Feet(7.5, Foot))
	assert.Equal(t, 2, c.Cached(), "feet bypass the memo")

	_, err = NewConverter(0)
	require.Error(t, err)
	assert.False(t, math.IsNaN(c.Feet(1, Metre)))
}

func TestOwner(t *testing.T) {
	n, err := Default()
	require.NoError(t, err)

	tests := []struct {
		raw  string
		want string
	}{
		{"CPS", "CPS Energy"},
		{"cps  energy", "CPS Energy"},
		{"City Public Service", "CPS Energy"},
		{"att", "AT&T"},
		{"Southwestern Bell", "AT&T"},
		{"spectrum", "Charter"},
		{"Acme Fiber", "ACME FIBER"},
		{"acme   fiber", "ACME FIBER"},
		{"", ""},
		{"  ", ""},
		{"Unknown", ""},
		{"N/A", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Owner(tt.raw))
		})
	}
	assert.False(t, Resolved(n.Owner("unknown")))
	assert.True(t, Resolved(n.Owner("CPS")))
}

func TestClass(t *testing.T) {
	n, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name  string
		kind  attachment.Kind
		texts []string
		want  attachment.Class
	}{
		{"primary", attachment.KindWire, []string{"Primary", "1/0 AAAC"}, attachment.ClassPrimary},
		{"neutral", attachment.KindWire, []string{"Neutral"}, attachment.ClassNeutral},
		{"triplex", attachment.KindWire, []string{"", "1/0 Triplex"}, attachment.ClassSecondary},
		{"service drop", attachment.KindWire, []string{"Service Drop"}, attachment.ClassService},
		{"comm drop", attachment.KindWire, []string{"Comm Drop"}, attachment.ClassCommDrop},
		{"fiber", attachment.KindWire, []string{"Fiber Optic"}, attachment.ClassCommunication},
		{"unmatched", attachment.KindWire, []string{"mystery"}, attachment.ClassUnknown},
		{"guy ignores text", attachment.KindGuy, []string{"Primary"}, attachment.ClassGuy},
		{"streetlight equipment", attachment.KindEquipment, []string{"Street Light"}, attachment.ClassStreetlight},
		{"pole top equipment", attachment.KindEquipment, []string{"Pole Top Bracket"}, attachment.ClassPoleTop},
		{"transformer", attachment.KindEquipment, []string{"Transformer"}, attachment.ClassEquipment},
		{"cross-arm", attachment.KindCrossArm, []string{"Primary"}, attachment.ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Class(tt.kind, tt.texts...))
		})
	}
}

func TestPoleID(t *testing.T) {
	assert.Equal(t, "P-100", PoleID("  #p-100 "))
	assert.Equal(t, "POLE 7", PoleID("pole   7"))
	assert.Equal(t, "", PoleID(""))
}

func TestTables(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		tables, err := DefaultTables()
		require.NoError(t, err)
		assert.NotEmpty(t, tables.Owners)
		assert.NotEmpty(t, tables.Classes)
		assert.Equal(t, "pole_top", tables.Classes[0].Class)
	})

	t.Run("override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		data := []byte(`owners:
  - canonical: Pedernales
    aliases: [PEC]
classes:
  - class: primary
    patterns: ["*mv*"]
`)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		tables, err := LoadTables(path)
		require.NoError(t, err)
		n, err := New(tables, WithMemoSize(8))
		require.NoError(t, err)

		assert.Equal(t, "Pedernales", n.Owner("pec"))
		assert.Equal(t, "CPS", n.Owner("cps"), "embedded aliases are not merged")
		assert.Equal(t, attachment.ClassPrimary, n.Class(attachment.KindWire, "MV Line"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
		var ioErr *errors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseTables([]byte("owners: [canonical: {"), "bad.yaml")
		assert.True(t, errors.IsMalformed(err))
	})

	t.Run("rule without patterns", func(t *testing.T) {
		_, err := ParseTables([]byte("classes:\n  - class: primary\n"), "bad.yaml")
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestNewRequiresTables(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = Default(WithMemoSize(-1))
	assert.True(t, errors.IsValidationError(err))
}
