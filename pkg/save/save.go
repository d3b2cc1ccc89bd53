// Package save persists reconciliation results as JSON or YAML documents.
package save

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/polemap/pkg/constants"
	"github.com/agentstation/polemap/pkg/errors"
)

// Write encodes v to the configured writer or file. A writer takes
// precedence over a path.
func Write(v any, opts ...Option) error {
	options := Defaults().Apply(opts...)
	if options.Writer() == nil && options.Path() == "" {
		return &errors.ValidationError{Field: "path", Message: "no path or writer configured for saving"}
	}
	if !options.Format().IsValid() {
		return &errors.ValidationError{Field: "format", Value: options.Format(), Message: "unsupported save format"}
	}

	data, err := Encode(v, options.Format())
	if err != nil {
		return err
	}

	if w := options.Writer(); w != nil {
		if _, err := w.Write(data); err != nil {
			return errors.WrapIO("write", "writer", err)
		}
		return nil
	}
	return writeFile(options.Path(), data)
}

// Encode marshals v in the given format.
func Encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.WrapParse("yaml", "result", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, errors.WrapParse("json", "result", err)
		}
		return buf.Bytes(), nil
	}
}

// writeFile writes to a temp file in the destination directory and renames
// it into place.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
