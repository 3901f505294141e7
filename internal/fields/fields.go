// Package fields validates the per-category dynamic field set of a
// payment record. A category carries an ordered list of required field
// names; a record referencing it must supply a non-empty value for each.
package fields

import "strings"

// Missing returns the required field names that are absent from values
// or empty after trimming. The result preserves the order of required;
// an empty result means the candidate set is complete.
func Missing(required []string, values map[string]string) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// MergeOnCategoryChange rebuilds the form values when the selected
// category changes. Values for names that remain required are preserved,
// values for names no longer required are dropped, and newly required
// names start empty.
func MergeOnCategoryChange(newRequired []string, previous map[string]string) map[string]string {
	merged := make(map[string]string, len(newRequired))
	for _, name := range newRequired {
		merged[name] = previous[name]
	}
	return merged
}
