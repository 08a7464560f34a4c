// Package storage holds the sinks that member records are upserted into.
package storage

import (
	"context"
	"fmt"

	"github.com/ppiankov/egmembers/internal/model"
)

// Sink receives member records keyed by id. Upserting an id twice replaces
// the first record.
type Sink interface {
	Upsert(ctx context.Context, rec model.MemberRecord) error
	Close() error
}

// Open returns the sink selected by cfg
func Open(cfg model.OutputConfig) (Sink, error) {
	switch cfg.Format {
	case "", "sqlite":
		sink, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case "jsonl":
		sink, err := OpenJSONLines(cfg.Path)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want sqlite or jsonl)", cfg.Format)
	}
}
