// Package compare computes the key-set difference between a local code-sample
// registry and the reference registry published by the docs.
package compare

import (
	"sort"

	"samplecheck/internal/registry"
)

// Exclusions suppresses known, intentional discrepancies from a report.
// Exclusions never alter the underlying key sets; they only stop a key from
// being reported.
type Exclusions struct {
	// NotNeededLocally lists reference keys this integration deliberately
	// does not implement. They are never reported as missing.
	NotNeededLocally []string `yaml:"not_needed_locally"`

	// NotInReference lists local keys known to be absent from the reference
	// file. They are never reported as incorrect.
	NotInReference []string `yaml:"not_in_reference"`
}

// DefaultExclusions returns the exclusion lists maintained alongside the docs
// code-samples file. Sourced from
// https://github.com/meilisearch/integration-automations/blob/main/code-samples-checkers/missing-cs-in-integration.sh
func DefaultExclusions() Exclusions {
	return Exclusions{
		NotNeededLocally: []string{
			"tenant_token_guide_search_no_sdk_1",
			"updating_guide_check_version_new_authorization_header",
			"updating_guide_check_version_old_authorization_header",
			"updating_guide_get_displayed_attributes_old_authorization_header",
			"updating_guide_reset_displayed_attributes_old_authorization_header",
			"updating_guide_create_dump",
		},
		NotInReference: []string{
			"tenant_token_guide_generate_sdk_1",
			"tenant_token_guide_search_sdk_1",
			"landing_getting_started_1",
		},
	}
}

// Report holds both discrepancy lists, each sorted in ascending byte order.
type Report struct {
	// Incorrect lists keys defined locally that the reference does not know.
	Incorrect []string

	// Missing lists keys the reference expects that are absent locally.
	Missing []string
}

// Empty reports whether the comparison found no discrepancies.
func (r Report) Empty() bool {
	return len(r.Incorrect) == 0 && len(r.Missing) == 0
}

// Compare diffs the key sets of two registries. It is a pure function: the
// same inputs always produce the same report, in the same order.
func Compare(local, ref registry.Registry, exc Exclusions) Report {
	return Report{
		Incorrect: subtract(local, ref, exc.NotInReference),
		Missing:   subtract(ref, local, exc.NotNeededLocally),
	}
}

// subtract returns sort(keys(a) − keys(b) − excluded).
func subtract(a, b registry.Registry, excluded []string) []string {
	skip := make(map[string]struct{}, len(excluded))
	for _, k := range excluded {
		skip[k] = struct{}{}
	}

	out := make([]string, 0)
	for k := range a {
		if _, ok := b[k]; ok {
			continue
		}
		if _, ok := skip[k]; ok {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
