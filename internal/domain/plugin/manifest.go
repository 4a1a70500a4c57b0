package plugin

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// maxSetSize limits set manifest file size to prevent memory exhaustion (256KB).
const maxSetSize int64 = 256 * 1024

// ErrSetNotFound indicates the set manifest file was not found.
var ErrSetNotFound = errors.New("plugin set manifest not found")

// SetSizeError indicates a set manifest exceeds the size limit.
type SetSizeError struct {
	Size  int64
	Limit int64
}

func (e *SetSizeError) Error() string {
	return fmt.Sprintf("plugin set manifest size %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

// setManifest is the YAML shape of a declarative plugin set. Hooks cannot
// be expressed in a manifest; sets exist so resolution diagnostics can be
// run over files.
type setManifest struct {
	Plugins []*Plugin `yaml:"plugins"`
}

// LoadSet reads a plugin set manifest from a YAML file and validates
// every entry. The returned plugins carry metadata and dependency specs
// only, no hooks.
func LoadSet(path string) ([]*Plugin, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, ErrSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if info.Size() > maxSetSize {
		return nil, &SetSizeError{Size: info.Size(), Limit: maxSetSize}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxSetSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return ParseSet(data)
}

// ParseSet decodes and validates a plugin set manifest from YAML bytes.
func ParseSet(data []byte) ([]*Plugin, error) {
	var manifest setManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing plugin set: %w", err)
	}

	for i, p := range manifest.Plugins {
		if p == nil {
			return nil, fmt.Errorf("plugins[%d]: entry is empty", i)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("plugins[%d] (%s): %w", i, p.Name, err)
		}
	}

	return manifest.Plugins, nil
}
