package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/egmembers/internal/model"

	_ "modernc.org/sqlite"
)

const createDataTableSQL = `
CREATE TABLE IF NOT EXISTS data (
	"id" TEXT NOT NULL PRIMARY KEY,
	"name" TEXT,
	"source" TEXT,
	"area" TEXT,
	"terms" TEXT,
	"electoral_districts" TEXT,
	"chambers" TEXT
);`

const upsertMemberSQL = `
INSERT INTO data (id, name, source, area, terms, electoral_districts, chambers)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	source = excluded.source,
	area = excluded.area,
	terms = excluded.terms,
	electoral_districts = excluded.electoral_districts,
	chambers = excluded.chambers;`

// SQLiteSink stores records in the "data" table of a SQLite file.
// List columns hold JSON arrays.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer; sqlite serializes writes anyway
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(createDataTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create data table: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Upsert inserts the record or replaces the row with the same id
func (s *SQLiteSink) Upsert(ctx context.Context, rec model.MemberRecord) error {
	terms, err := jsonList(rec.Terms)
	if err != nil {
		return err
	}
	districts, err := jsonList(rec.ElectoralDistricts)
	if err != nil {
		return err
	}
	chambers, err := jsonList(rec.Chambers)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, upsertMemberSQL,
		rec.ID, rec.Name, rec.Source, rec.Area, terms, districts, chambers)
	if err != nil {
		return fmt.Errorf("upsert member %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads the record stored under id
func (s *SQLiteSink) Get(ctx context.Context, id string) (model.MemberRecord, error) {
	var rec model.MemberRecord
	var terms, districts, chambers string

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, area, terms, electoral_districts, chambers FROM data WHERE id = ?`, id)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Source, &rec.Area, &terms, &districts, &chambers); err != nil {
		return rec, fmt.Errorf("get member %s: %w", id, err)
	}

	for _, col := range []struct {
		raw string
		dst *[]string
	}{
		{terms, &rec.Terms},
		{districts, &rec.ElectoralDistricts},
		{chambers, &rec.Chambers},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return rec, fmt.Errorf("decode member %s: %w", id, err)
		}
	}
	return rec, nil
}

// Count returns the number of stored records
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// Close closes the database
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func jsonList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}
