// Package sqliteloader reads a parameter-assignment snapshot table out of a
// modernc.org/sqlite database, grounded on the teacher's
// internal/infra/persistence/sqlite/store.go (same driver registration and
// database/sql usage, narrowed here to a single read-only query).
package sqliteloader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"gridcore/internal/ingest"
)

// Loader reads rows from the parameter_snapshot table:
//
//	CREATE TABLE parameter_snapshot (
//	  class_name     TEXT NOT NULL,
//	  object_name    TEXT NOT NULL,
//	  parameter_name TEXT NOT NULL,
//	  raw_value      TEXT NOT NULL -- JSON, pvalue.Wrap's input shape
//	)
type Loader struct {
	db *sql.DB
}

// Open opens the sqlite database at path (an empty path defaults to
// "gridcore.db", matching the teacher's NewStore default).
func Open(path string) (*Loader, error) {
	if path == "" {
		path = "gridcore.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqliteloader: open %s: %w", path, err)
	}
	return &Loader{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Loader) Close() error { return l.db.Close() }

// LoadRows reads every row of parameter_snapshot.
func (l *Loader) LoadRows(ctx context.Context) ([]ingest.Row, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT class_name, object_name, parameter_name, raw_value FROM parameter_snapshot`)
	if err != nil {
		return nil, fmt.Errorf("sqliteloader: query parameter_snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ingest.Row
	for rows.Next() {
		var className, objectName, paramName, rawJSON string
		if err := rows.Scan(&className, &objectName, &paramName, &rawJSON); err != nil {
			return nil, fmt.Errorf("sqliteloader: scan row: %w", err)
		}
		var decoded any
		if err := json.Unmarshal([]byte(rawJSON), &decoded); err != nil {
			return nil, fmt.Errorf("sqliteloader: decode %s.%s.%s: %w", className, objectName, paramName, err)
		}
		out = append(out, ingest.Row{
			ClassName:     className,
			ObjectName:    objectName,
			ParameterName: paramName,
			RawValue:      decoded,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqliteloader: iterate rows: %w", err)
	}
	return out, nil
}

var _ ingest.Loader = (*Loader)(nil)
