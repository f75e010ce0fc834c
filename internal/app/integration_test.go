package app

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/akopylov/chfill/internal/domain"
	"github.com/akopylov/chfill/internal/infra/repos/profiles"
	"github.com/akopylov/chfill/internal/infra/repos/runs"
	"github.com/akopylov/chfill/internal/logging"
	"github.com/akopylov/chfill/internal/registry"
)

const fillProfileYAML = `
name: events-test
table: events
rows: 37
batch_size: 10
seed: 42
columns:
  - {name: id, type: UInt32}
  - {name: status, type: String}
  - {name: age, type: Int32}
hints:
  status: ["A", "B"]
  age: [18, 30]
target:
  kind: sqlite
  dsn: %s
`

func newService(t *testing.T, profilesDir string) *FillService {
	t.Helper()
	runRepo := runs.NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.sqlite"))
	if err := runRepo.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = runRepo.Close() })

	var buf bytes.Buffer
	return NewFillService(
		profiles.NewFileRepository(profilesDir),
		runRepo,
		registry.DefaultTypeRegistry(),
		logging.NewLoggerWithWriter("error", &buf),
	)
}

func TestFillEndToEndSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "target.db")
	profileYAML := []byte(fmt.Sprintf(fillProfileYAML, dbPath))
	if err := os.WriteFile(filepath.Join(dir, "events.yaml"), profileYAML, 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newService(t, dir)
	run, err := svc.Fill(&FillRequest{ProfileID: "events-test", Mode: domain.TableModeCreate})
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != domain.RunStatusSuccess {
		t.Fatalf("expected success, got %s (%s)", run.Status, run.Error)
	}
	if run.Stats == nil || run.Stats.RowsInserted != 37 || run.Stats.Batches != 4 {
		t.Fatalf("unexpected stats: %+v", run.Stats)
	}
	if run.ConfigHash == "" || run.Seed != 42 {
		t.Fatalf("run metadata incomplete: %+v", run)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 37 {
		t.Fatalf("expected 37 rows in target, got %d", count)
	}

	var outside int
	if err := db.QueryRow("SELECT COUNT(*) FROM events WHERE age < 18 OR age > 30 OR status NOT IN ('A','B')").Scan(&outside); err != nil {
		t.Fatal(err)
	}
	if outside != 0 {
		t.Fatalf("%d rows violate hints", outside)
	}

	stored, err := svc.GetRun(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domain.RunStatusSuccess {
		t.Fatalf("run history not updated: %+v", stored)
	}
}

func TestFillDeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	dbA := filepath.Join(dir, "a.db")
	dbB := filepath.Join(dir, "b.db")
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(fmt.Sprintf(fillProfileYAML, dbA)), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newService(t, dir)
	if _, err := svc.Fill(&FillRequest{ProfileID: "events-test", Mode: domain.TableModeCreate}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Fill(&FillRequest{
		ProfileID: "events-test",
		Mode:      domain.TableModeCreate,
		Target:    &domain.TargetConfig{Kind: domain.TargetKindSQLite, DSN: dbB},
	}); err != nil {
		t.Fatal(err)
	}

	idsOf := func(path string) []int64 {
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		rows, err := db.Query("SELECT id FROM events")
		if err != nil {
			t.Fatal(err)
		}
		defer rows.Close()
		var ids []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				t.Fatal(err)
			}
			ids = append(ids, id)
		}
		return ids
	}

	a, b := idsOf(dbA), idsOf(dbB)
	if len(a) != 37 || len(b) != 37 {
		t.Fatalf("expected 37 rows each, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d diverged across seeded runs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestPreviewDoesNotNeedTarget(t *testing.T) {
	dir := t.TempDir()
	profile := `
name: preview-test
table: events
rows: 100
columns:
  - {name: id, type: UInt64}
  - {name: label, type: LowCardinality(String)}
`
	if err := os.WriteFile(filepath.Join(dir, "p.yaml"), []byte(profile), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newService(t, dir)
	seed := int64(7)
	rows, err := svc.Preview(&FillRequest{ProfileID: "preview-test", Seed: &seed}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 preview rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Len() != 2 {
			t.Fatalf("unexpected row shape: %v", row.Names())
		}
	}
}

func TestFillFailsWithoutTarget(t *testing.T) {
	dir := t.TempDir()
	profile := `
name: no-target
table: events
rows: 10
columns:
  - {name: id, type: UInt64}
`
	if err := os.WriteFile(filepath.Join(dir, "p.yaml"), []byte(profile), 0o644); err != nil {
		t.Fatal(err)
	}
	svc := newService(t, dir)
	if _, err := svc.Fill(&FillRequest{ProfileID: "no-target"}); err == nil {
		t.Fatal("expected error for missing target")
	}
}

