// Package change defines the canonical change record and the normalization
// of the loosely-shaped records produced by the language-model integration.
package change

import (
	"sort"
	"strings"
)

// Record is one proposed textual substitution in canonical form.
type Record struct {
	OriginalText string `json:"original_text"`
	NewText      string `json:"new_text"`
	Reason       string `json:"reason,omitempty"`
}

// Skip describes a raw record that matched no recognized schema.
type Skip struct {
	Index int      // position in the raw input
	Keys  []string // the keys the record actually carried
}

// fieldPair is one recognized raw schema variant. Pairs are checked in
// order; the first satisfied pair wins.
type fieldPair struct {
	original string
	revised  string
}

var fieldPairs = []fieldPair{
	{"original_text", "new_text"},
	{"original_text", "suggested_change"},
	{"original", "revised"},
	{"original", "new"},
}

// reasonKeys are accepted aliases for the optional justification field.
var reasonKeys = []string{"reason", "justification"}

// Normalize maps raw records onto canonical Records. Unrecognized shapes and
// records whose text is empty after cleanup are skipped, never fatal. Input
// order is preserved so later length sorting can tie-break stably.
func Normalize(raw []map[string]any) ([]Record, []Skip) {
	var (
		records []Record
		skipped []Skip
	)

	for i, m := range raw {
		original, revised, ok := matchFields(m)
		if !ok {
			skipped = append(skipped, Skip{Index: i, Keys: sortedKeys(m)})
			continue
		}

		original = Clean(original)
		revised = Clean(revised)
		if original == "" || revised == "" {
			skipped = append(skipped, Skip{Index: i, Keys: sortedKeys(m)})
			continue
		}

		rec := Record{OriginalText: original, NewText: revised}
		for _, key := range reasonKeys {
			if reason, ok := stringField(m, key); ok && reason != "" {
				rec.Reason = reason
				break
			}
		}
		records = append(records, rec)
	}

	return records, skipped
}

// Clean trims surrounding whitespace and normalizes CRLF line endings.
func Clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
}

func matchFields(m map[string]any) (original, revised string, ok bool) {
	for _, pair := range fieldPairs {
		o, okO := stringField(m, pair.original)
		r, okR := stringField(m, pair.revised)
		if okO && okR {
			return o, r, true
		}
	}
	return "", "", false
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic ordering for logs and tests.
	sort.Strings(keys)
	return keys
}
