package compare

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadExclusions reads an exclusions file, replacing the built-in defaults.
// The file is a YAML mapping with two optional string lists:
//
//	not_needed_locally:
//	  - some_reference_only_key
//	not_in_reference:
//	  - some_local_only_key
//
// Unknown fields are rejected so a typo cannot silently disable an exclusion
// list.
func LoadExclusions(path string) (Exclusions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Exclusions{}, fmt.Errorf("read exclusions %s: %w", path, err)
	}

	var exc Exclusions
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&exc); err != nil && err != io.EOF {
		return Exclusions{}, fmt.Errorf("parse exclusions %s: %w", path, err)
	}
	return exc, nil
}
