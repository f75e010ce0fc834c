package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/akopylov/chfill/internal/domain"
)

func TestSQLiteTarget_InsertRoundtrip(t *testing.T) {
	tgt := NewSQLiteTarget(filepath.Join(t.TempDir(), "fill.db"))
	if err := tgt.Connect(); err != nil {
		t.Fatal(err)
	}
	defer tgt.Close()

	schema := domain.Schema{
		{Name: "id", Type: "UInt64"},
		{Name: "name", Type: "String"},
		{Name: "active", Type: "Bool"},
		{Name: "day", Type: "Date"},
		{Name: "ts", Type: "DateTime"},
	}
	if err := tgt.CreateTableIfNotExists("events", schema); err != nil {
		t.Fatal(err)
	}

	rows := []domain.Row{
		domain.NewRow([]domain.Field{
			{Name: "id", Value: uint64(1)},
			{Name: "name", Value: "alpha"},
			{Name: "active", Value: true},
			{Name: "day", Value: domain.CivilDate{Year: 2024, Month: time.May, Day: 2}},
			{Name: "ts", Value: time.Date(2024, 5, 2, 8, 9, 10, 0, time.UTC)},
		}),
		domain.NewRow([]domain.Field{
			{Name: "id", Value: uint64(18446744073709551615)},
			{Name: "name", Value: "beta"},
			{Name: "active", Value: false},
			{Name: "day", Value: domain.CivilDate{Year: 2024, Month: time.May, Day: 3}},
			{Name: "ts", Value: time.Date(2024, 5, 3, 8, 9, 10, 0, time.UTC)},
		}),
	}
	if err := tgt.InsertBatch("events", schema.Names(), rows); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := tgt.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}

	var name, day, ts string
	var active int
	if err := tgt.db.QueryRow("SELECT name, active, day, ts FROM events WHERE id = 1").Scan(&name, &active, &day, &ts); err != nil {
		t.Fatal(err)
	}
	if name != "alpha" || active != 1 || day != "2024-05-02" || ts != "2024-05-02 08:09:10" {
		t.Fatalf("unexpected stored row: %q %d %q %q", name, active, day, ts)
	}

	// UInt64 max does not fit an int64 column and is stored as text.
	var big string
	if err := tgt.db.QueryRow("SELECT id FROM events WHERE name = 'beta'").Scan(&big); err != nil {
		t.Fatal(err)
	}
	if big != "18446744073709551615" {
		t.Fatalf("unexpected big id: %q", big)
	}

	if err := tgt.TruncateTable("events"); err != nil {
		t.Fatal(err)
	}
	if err := tgt.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected empty table after truncate, got %d", count)
	}
}
