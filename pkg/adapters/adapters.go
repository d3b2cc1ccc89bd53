// Package adapters converts the two external pole-survey schemas into the
// canonical attachment.Record shape.
//
// The boundary is a tagged variant: a Document carries the Schema it was
// loaded as, and Records dispatches to the adapter for that schema. Both
// adapters are pure walks over the parsed document; data-quality problems are
// reported to the caller's warnings collector and never returned as errors.
package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/errors"
	"github.com/agentstation/polemap/pkg/normalize"
)

// Schema identifies an input document schema.
type Schema string

const (
	// DesignTree is the hierarchical Source-A schema.
	DesignTree Schema = "design"
	// Survey is the flat node/photo/trace Source-B schema.
	Survey Schema = "survey"
)

// String returns the string representation of a schema.
func (s Schema) String() string {
	return string(s)
}

// Source returns the attachment source the schema feeds.
func (s Schema) Source() attachment.Source {
	if s == DesignTree {
		return attachment.SourceA
	}
	return attachment.SourceB
}

// ParseSchema parses a schema name.
func ParseSchema(s string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "design", "a", "sourcea", "design-tree":
		return DesignTree, nil
	case "survey", "b", "sourceb":
		return Survey, nil
	default:
		return "", errors.NewValidationError("schema", s, "must be design or survey")
	}
}

// Document is a loaded input document tagged with its schema.
type Document struct {
	Schema Schema
	Name   string
	root   gjson.Result
}

// Load validates raw JSON and tags it with a schema. A malformed document is
// fatal for this load only.
func Load(schema Schema, name string, data []byte) (*Document, error) {
	if schema != DesignTree && schema != Survey {
		return nil, errors.NewValidationError("schema", schema, "must be design or survey")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.NewParseError("json", name, "document is not valid JSON", nil)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.NewParseError("json", name, "document root must be an object", nil)
	}
	return &Document{Schema: schema, Name: name, root: root}, nil
}

// LoadFile reads and loads a document from disk.
func LoadFile(schema Schema, path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input document
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(schema.String()+" document", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return Load(schema, path, data)
}

// Records normalizes the document into records in input traversal order.
func (d *Document) Records(n *normalize.Normalizer, warnings *attachment.Warnings) ([]attachment.Record, error) {
	if d == nil {
		return nil, errors.Required("document")
	}
	if n == nil {
		return nil, errors.Required("normalizer")
	}
	if warnings == nil {
		return nil, errors.Required("warnings")
	}
	e := &emitter{n: n, warnings: warnings}
	switch d.Schema {
	case DesignTree:
		walkDesignTree(d.root, e)
	case Survey:
		walkSurvey(d.root, e)
	default:
		return nil, errors.NewValidationError("schema", d.Schema, "unsupported schema")
	}
	return e.records, nil
}

// emitter accumulates records and applies the shared plausibility checks.
type emitter struct {
	n        *normalize.Normalizer
	warnings *attachment.Warnings
	records  []attachment.Record
}

func (e *emitter) warn(format string, args ...any) {
	e.warnings.Add(format, args...)
}

// emit appends r. known is false when no height field could be read, in which
// case the zero height is flagged as suspect.
func (e *emitter) emit(r attachment.Record, known bool) {
	if !known {
		e.warn("pole %s: %s %s %q (%s) has no height; using 0 ft", r.PoleID, r.Layer, strings.ToLower(string(r.Kind)), r.Description, r.ID)
	}
	if r.PoleHeight > 0 && r.Height > r.PoleHeight+constants.PoleHeightBuffer {
		e.warn("pole %s: %s %s %q (%s) at %.2f ft is above pole height %.2f ft", r.PoleID, r.Layer, strings.ToLower(string(r.Kind)), r.Description, r.ID, r.Height, r.PoleHeight)
	}
	e.records = append(e.records, r)
}

// firstValue unwraps the keyed-object and array encodings used for
// multi-valued attributes, returning the first value.
func firstValue(v gjson.Result) gjson.Result {
	if !v.IsObject() && !v.IsArray() {
		return v
	}
	var first gjson.Result
	v.ForEach(func(_, value gjson.Result) bool {
		first = value
		return false
	})
	return first
}

// index maps the keys of a JSON object to their values.
func index(v gjson.Result) map[string]gjson.Result {
	out := make(map[string]gjson.Result)
	v.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value
		return true
	})
	return out
}

func describe(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func fallbackID(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
