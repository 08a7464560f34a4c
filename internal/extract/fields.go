package extract

import (
	"fmt"
	"strings"
)

// fieldBlock names a labelled block on a member page
type fieldBlock struct {
	class    string // CSS class of the wrapping div
	label    string // expected label text after normalizeLabel
	optional bool   // a block with no label yields no values
}

var (
	governorateField = fieldBlock{class: "field-name-field-govern", label: "المحافظة"}
	regionField      = fieldBlock{class: "field-name-field-region", label: "الدائرة الانتخابية", optional: true}
	sessionField     = fieldBlock{class: "field-name-field-session", label: "الدورة البرلمانية"}
	chamberField     = fieldBlock{class: "field-name-field-chamber", label: "الغرفة البرلمانية"}
)

// normalizeLabel strips surrounding whitespace and a trailing colon
func normalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// fieldValues validates the label of a field block and returns the trimmed
// text of each of its value elements in document order
func fieldValues(doc *Document, f fieldBlock) ([]string, error) {
	blocks := doc.Find("div." + f.class)

	var labels, items []Element
	for _, b := range blocks {
		labels = append(labels, b.Find(".field-label")...)
		items = append(items, b.Find(".field-item")...)
	}

	switch {
	case len(labels) == 1:
		got := normalizeLabel(labels[0].Text())
		if got != f.label {
			return nil, fmt.Errorf("%w: %s: got %q, want %q", ErrLabelMismatch, f.class, got, f.label)
		}
	case len(labels) == 0 && f.optional:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("%w: %s: %d labels", ErrMissingOrAmbiguousLabel, f.class, len(labels))
	}

	values := make([]string, 0, len(items))
	for _, it := range items {
		values = append(values, strings.TrimSpace(it.Text()))
	}
	return values, nil
}

// one returns the single item of values
func one(what string, values []string) (string, error) {
	if len(values) != 1 {
		return "", fmt.Errorf("%w: %s: got %d", ErrAmbiguity, what, len(values))
	}
	return values[0], nil
}

// dedupe keeps the first occurrence of each value
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	return unique
}
