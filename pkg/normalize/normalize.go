// Package normalize provides the shared leaf utilities of the reconciliation
// engine: length-unit conversion to feet, owner-name canonicalization through
// an alias table, and usage-class mapping of free-text descriptions.
//
// Lookup tables are immutable configuration injected into a Normalizer; the
// package keeps no mutable global state.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/polemap/internal/matcher"
	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/errors"
)

// Normalizer canonicalizes owners, classes and lengths for one comparison run.
// It is not safe for concurrent use because of its conversion memo.
type Normalizer struct {
	aliases    map[string]string
	unresolved map[string]struct{}
	classes    *matcher.Rules
	units      *Converter
}

// Option configures a Normalizer.
type Option func(*options) error

type options struct {
	memoSize int
}

// WithMemoSize sets the capacity of the unit conversion memo.
func WithMemoSize(size int) Option {
	return func(o *options) error {
		if size <= 0 {
			return errors.NewValidationError("memo_size", size, "must be positive")
		}
		o.memoSize = size
		return nil
	}
}

// New creates a Normalizer over the given tables.
func New(tables *Tables, opts ...Option) (*Normalizer, error) {
	if tables == nil {
		return nil, errors.Required("tables")
	}
	o := &options{memoSize: constants.DefaultMemoSize}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	n := &Normalizer{
		aliases:    make(map[string]string),
		unresolved: make(map[string]struct{}),
	}
	for _, owner := range tables.Owners {
		n.aliases[foldKey(owner.Canonical)] = owner.Canonical
		for _, alias := range owner.Aliases {
			n.aliases[foldKey(alias)] = owner.Canonical
		}
	}
	for _, u := range tables.Unresolved {
		n.unresolved[foldKey(u)] = struct{}{}
	}

	rules := make([]matcher.Rule, 0, len(tables.Classes))
	for _, c := range tables.Classes {
		rules = append(rules, matcher.Rule{Label: c.Class, Patterns: c.Patterns})
	}
	compiled, err := matcher.CompileRules(rules)
	if err != nil {
		return nil, errors.NewConfigError("normalize", "compiling class rules", err)
	}
	n.classes = compiled

	units, err := NewConverter(o.memoSize)
	if err != nil {
		return nil, err
	}
	n.units = units
	return n, nil
}

// Default creates a Normalizer over the embedded tables.
func Default(opts ...Option) (*Normalizer, error) {
	tables, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	return New(tables, opts...)
}

// Feet converts a length to feet.
func (n *Normalizer) Feet(value float64, unit Unit) float64 {
	return n.units.Feet(value, unit)
}

// Converter returns the run's unit converter.
func (n *Normalizer) Converter() *Converter {
	return n.units
}

// Owner returns the canonical owner name for raw. Unknown owners are
// returned upper-cased with collapsed whitespace so spelling variants in case
// still compare equal. Unresolved owners yield "".
func (n *Normalizer) Owner(raw string) string {
	key := foldKey(raw)
	if key == "" {
		return ""
	}
	if _, ok := n.unresolved[key]; ok {
		return ""
	}
	if canonical, ok := n.aliases[key]; ok {
		return canonical
	}
	return cases.Upper(language.Und).String(collapse(raw))
}

// Class maps a record kind and its descriptive texts to a usage class.
// Texts are tried in order against each rule; the first matching rule wins.
func (n *Normalizer) Class(kind attachment.Kind, texts ...string) attachment.Class {
	label, ok := n.classes.First(texts...)
	switch kind {
	case attachment.KindGuy:
		return attachment.ClassGuy
	case attachment.KindEquipment:
		if ok && (label == string(attachment.ClassStreetlight) || label == string(attachment.ClassPoleTop)) {
			return attachment.Class(label)
		}
		return attachment.ClassEquipment
	case attachment.KindCrossArm:
		return attachment.ClassUnknown
	}
	if !ok {
		return attachment.ClassUnknown
	}
	return attachment.Class(label)
}

// PoleID canonicalizes a pole tag: trimmed, whitespace collapsed, upper case,
// without a leading '#'.
func PoleID(raw string) string {
	id := strings.TrimPrefix(collapse(raw), "#")
	return strings.ToUpper(strings.TrimSpace(id))
}

// Resolved reports whether an owner returned by Owner is known.
func Resolved(owner string) bool {
	return owner != ""
}

func foldKey(s string) string {
	return cases.Fold().String(collapse(s))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
