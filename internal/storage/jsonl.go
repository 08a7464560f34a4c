package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ppiankov/egmembers/internal/model"
)

// JSONLinesSink writes one JSON object per upsert. Replacing earlier lines
// with the same id is left to the reader.
type JSONLinesSink struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// OpenJSONLines appends to the file at path; "-" or "" writes to stdout
func OpenJSONLines(path string) (*JSONLinesSink, error) {
	if path == "" || path == "-" {
		return NewJSONLinesSink(os.Stdout, nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return NewJSONLinesSink(f, f), nil
}

// NewJSONLinesSink writes to w and closes closer (if any) on Close
func NewJSONLinesSink(w io.Writer, closer io.Closer) *JSONLinesSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLinesSink{enc: enc, closer: closer}
}

// Upsert appends the record as one JSON line
func (s *JSONLinesSink) Upsert(ctx context.Context, rec model.MemberRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("write member %s: %w", rec.ID, err)
	}
	return nil
}

// Close closes the underlying file; stdout is left open
func (s *JSONLinesSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
