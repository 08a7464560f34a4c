package extract

import "errors"

// Extraction failures. All of them are fatal to a run; callers match them
// with errors.Is.
var (
	// ErrAmbiguousPagination means more than one pager link carries the next page number
	ErrAmbiguousPagination = errors.New("ambiguous pagination")

	// ErrMalformedURL means a member URL does not end in members/mem-<digits>
	ErrMalformedURL = errors.New("malformed member url")

	// ErrAmbiguity means zero or several items where exactly one was expected
	ErrAmbiguity = errors.New("expected exactly one item")

	// ErrLabelMismatch means a field block label differs from the expected text
	ErrLabelMismatch = errors.New("label mismatch")

	// ErrMissingOrAmbiguousLabel means a required field block has no label, or several
	ErrMissingOrAmbiguousLabel = errors.New("missing or ambiguous label")

	// ErrUnknownChamber means a chamber name outside the known two
	ErrUnknownChamber = errors.New("unknown chamber")
)
