package sqliteloader

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(`CREATE TABLE parameter_snapshot (
		class_name TEXT NOT NULL,
		object_name TEXT NOT NULL,
		parameter_name TEXT NOT NULL,
		raw_value TEXT NOT NULL
	)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return &Loader{db: db}
}

func insertRow(t *testing.T, l *Loader, class, object, param, rawJSON string) {
	t.Helper()
	if _, err := l.db.Exec(
		`INSERT INTO parameter_snapshot (class_name, object_name, parameter_name, raw_value) VALUES (?, ?, ?, ?)`,
		class, object, param, rawJSON,
	); err != nil {
		t.Fatalf("insert row: %v", err)
	}
}

func TestLoadRowsDecodesJSONValues(t *testing.T) {
	l := newTestLoader(t)
	insertRow(t, l, "city", "Sthlm", "tax_net_flow", `4`)
	insertRow(t, l, "region", "North", "population", `[1,2,3]`)

	rows, err := l.LoadRows(context.Background())
	if err != nil {
		t.Fatalf("LoadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0].ClassName != "city" || rows[0].ObjectName != "Sthlm" || rows[0].ParameterName != "tax_net_flow" {
		t.Fatalf("unexpected row[0]: %+v", rows[0])
	}
	if n, ok := rows[0].RawValue.(float64); !ok || n != 4 {
		t.Fatalf("row[0].RawValue = %#v, want float64(4)", rows[0].RawValue)
	}

	arr, ok := rows[1].RawValue.([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("row[1].RawValue = %#v, want a 3-element slice", rows[1].RawValue)
	}
}

func TestLoadRowsEmptyTable(t *testing.T) {
	l := newTestLoader(t)
	rows, err := l.LoadRows(context.Background())
	if err != nil {
		t.Fatalf("LoadRows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
}

func TestLoadRowsRejectsMalformedJSON(t *testing.T) {
	l := newTestLoader(t)
	insertRow(t, l, "city", "Sthlm", "tax_net_flow", `{not json`)

	if _, err := l.LoadRows(context.Background()); err == nil {
		t.Fatal("expected an error decoding malformed JSON")
	}
}

func TestOpenUsesGivenPath(t *testing.T) {
	path := t.TempDir() + "/snapshot.db"
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = l.Close() }()
	if l.db == nil {
		t.Fatal("expected a non-nil db handle")
	}
}
