package normalize

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/errors"
)

// Unit is a length unit found in source documents.
type Unit string

const (
	Metre Unit = "METRE"
	Foot  Unit = "FOOT"
	Inch  Unit = "INCH"
)

// ParseUnit maps the spellings used by the source schemas to a Unit.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "METRE", "METER", "METRES", "METERS", "M":
		return Metre, true
	case "FOOT", "FEET", "FT", "'":
		return Foot, true
	case "INCH", "INCHES", "IN", "\"":
		return Inch, true
	default:
		return "", false
	}
}

// ToFeet converts a value in unit to feet.
func ToFeet(value float64, unit Unit) float64 {
	switch unit {
	case Metre:
		return value / constants.MetresPerFoot
	case Inch:
		return value / constants.InchesPerFoot
	default:
		return value
	}
}

// FromFeet converts a value in feet to unit.
func FromFeet(feet float64, unit Unit) float64 {
	switch unit {
	case Metre:
		return feet * constants.MetresPerFoot
	case Inch:
		return feet * constants.InchesPerFoot
	default:
		return feet
	}
}

type memoKey struct {
	value float64
	unit  Unit
}

// Converter converts lengths to feet, memoizing results for the lifetime of
// one comparison run. The cache has no observable effect on results.
type Converter struct {
	memo *lru.Cache[memoKey, float64]
}

// NewConverter creates a converter with a memo cache of the given size.
func NewConverter(size int) (*Converter, error) {
	if size <= 0 {
		return nil, errors.NewConfigError("normalize", "memo size must be positive", nil)
	}
	memo, err := lru.New[memoKey, float64](size)
	if err != nil {
		return nil, errors.NewConfigError("normalize", "creating unit memo", err)
	}
	return &Converter{memo: memo}, nil
}

// Feet converts value in unit to feet.
func (c *Converter) Feet(value float64, unit Unit) float64 {
	if unit == Foot {
		return value
	}
	key := memoKey{value: value, unit: unit}
	if feet, ok := c.memo.Get(key); ok {
		return feet
	}
	feet := ToFeet(value, unit)
	c.memo.Add(key, feet)
	return feet
}

// Cached returns the number of memoized conversions.
func (c *Converter) Cached() int {
	return c.memo.Len()
}
