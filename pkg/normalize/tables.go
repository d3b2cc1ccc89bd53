package normalize

import (
	_ "embed"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/polemap/pkg/errors"
)

//go:embed tables.yaml
var defaultTables []byte

// Tables holds the lookup data used by the normalizer. A Tables value is
// treated as immutable once handed to New.
type Tables struct {
	Owners     []OwnerAlias `yaml:"owners" json:"owners"`
	Unresolved []string     `yaml:"unresolved" json:"unresolved"`
	Classes    []ClassRule  `yaml:"classes" json:"classes"`
}

// OwnerAlias maps alternative spellings to one canonical owner name.
type OwnerAlias struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Aliases   []string `yaml:"aliases" json:"aliases"`
}

// ClassRule assigns a usage class to descriptions matching any pattern.
type ClassRule struct {
	Class    string   `yaml:"class" json:"class"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// DefaultTables returns the embedded lookup tables.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTables, "tables.yaml")
}

// LoadTables reads lookup tables from a YAML file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied tables file
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParseTables(data, path)
}

// ParseTables parses YAML lookup tables. name is used in error messages.
func ParseTables(data []byte, name string) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.NewParseError("yaml", name, "invalid lookup tables", err)
	}
	for i, o := range t.Owners {
		if o.Canonical == "" {
			return nil, errors.NewValidationError("owners", i, "canonical name is required")
		}
	}
	for i, c := range t.Classes {
		if c.Class == "" || len(c.Patterns) == 0 {
			return nil, errors.NewValidationError("classes", i, "class and patterns are required")
		}
	}
	return &t, nil
}
