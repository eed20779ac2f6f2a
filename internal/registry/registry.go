// Package registry loads code-sample registries: YAML documents whose
// top-level node is a mapping from sample key to sample content. Only the
// keys matter to the rest of the tool; values are carried but never examined.
package registry

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is one source of truth for which code samples exist.
type Registry map[string]any

// IOError reports a registry file that could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read registry %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a registry file that is not a valid top-level YAML mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse registry %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads a registry file and decodes its top-level mapping.
//
// An empty document (or one that decodes to a YAML null) yields an empty
// Registry rather than an error, matching how blank code-sample files are
// treated in practice. An unreadable file is an error: treating it as empty
// would silently report every reference key as missing.
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if reg == nil {
		reg = Registry{}
	}
	return reg, nil
}

// Keys returns the registry's sample keys in ascending byte order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
