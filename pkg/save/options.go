package save

import (
	"io"
	"path/filepath"
	"strings"
)

// Format is the encoding of a saved result.
type Format int

// Format constants.
const (
	FormatJSON Format = iota
	FormatYAML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// FormatFromPath picks the format from a file extension. Anything other
// than .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Options is the configuration for save.
type Options struct {
	path   string
	writer io.Writer
	format Format
	set    bool
}

// Path returns the destination file, if any.
func (s *Options) Path() string {
	return s.path
}

// Writer returns the destination writer, if any.
func (s *Options) Writer() io.Writer {
	return s.writer
}

// Format returns the encoding. Without an explicit format, a path's
// extension decides.
func (s *Options) Format() Format {
	if !s.set && s.path != "" {
		return FormatFromPath(s.path)
	}
	return s.format
}

// Defaults returns the default save options.
func Defaults() *Options {
	return &Options{format: FormatJSON}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithFormat forces the output format.
func WithFormat(f Format) Option {
	return func(s *Options) {
		s.format = f
		s.set = true
	}
}

// WithPath for filesystem saves.
func WithPath(path string) Option {
	return func(s *Options) {
		s.path = path
	}
}

// WithWriter for custom outputs.
func WithWriter(w io.Writer) Option {
	return func(s *Options) {
		s.writer = w
	}
}
