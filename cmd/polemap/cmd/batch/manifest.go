package batch

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/polemap/pkg/errors"
)

// Manifest lists the comparisons of a batch.
type Manifest struct {
	// Workers overrides the configured number of concurrent jobs.
	Workers int   `yaml:"workers,omitempty"`
	Jobs    []Job `yaml:"jobs"`
}

// Job is one design/survey pair. Relative paths are resolved against the
// manifest's directory.
type Job struct {
	Name   string `yaml:"name" json:"name"`
	Design string `yaml:"design" json:"design"`
	Survey string `yaml:"survey" json:"survey"`
}

// LoadManifest reads and validates a batch manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied manifest
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParseManifest(data, filepath.Dir(path), path)
}

// ParseManifest parses manifest YAML, resolving job paths against dir.
func ParseManifest(data []byte, dir, name string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if len(m.Jobs) == 0 {
		return nil, &errors.ValidationError{Field: "jobs", Message: "manifest lists no jobs"}
	}
	if m.Workers < 0 {
		return nil, &errors.ValidationError{Field: "workers", Value: m.Workers, Message: "cannot be negative"}
	}

	seen := make(map[string]bool, len(m.Jobs))
	for i := range m.Jobs {
		job := &m.Jobs[i]
		if job.Design == "" || job.Survey == "" {
			return nil, &errors.ValidationError{Field: "jobs", Value: job.Name, Message: "job needs both design and survey"}
		}
		if job.Name == "" {
			job.Name = filepath.Base(job.Design)
		}
		if seen[job.Name] {
			return nil, &errors.ValidationError{Field: "jobs", Value: job.Name, Message: "duplicate job name"}
		}
		seen[job.Name] = true
		job.Design = resolve(dir, job.Design)
		job.Survey = resolve(dir, job.Survey)
	}
	return &m, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
