package rowgen

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/akopylov/chfill/internal/domain"
	"github.com/akopylov/chfill/internal/logging"
)

func int64Ptr(v int64) *int64 { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var refTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRowShapeAndOrder(t *testing.T) {
	schema := domain.Schema{
		{Name: "id", Type: "UInt64"},
		{Name: "name", Type: "String"},
		{Name: "score", Type: "Float64"},
		{Name: "active", Type: "Bool"},
		{Name: "created", Type: "DateTime"},
	}
	g, err := New(schema, nil, int64Ptr(1), WithClock(fixedClock(refTime)))
	if err != nil {
		t.Fatal(err)
	}

	row := g.Next()
	if row.Len() != len(schema) {
		t.Fatalf("expected %d fields, got %d", len(schema), row.Len())
	}
	if !reflect.DeepEqual(row.Names(), schema.Names()) {
		t.Fatalf("field order %v does not match schema order %v", row.Names(), schema.Names())
	}
}

func TestEmptySchemaYieldsEmptyRows(t *testing.T) {
	g, err := New(domain.Schema{}, nil, int64Ptr(1))
	if err != nil {
		t.Fatal(err)
	}
	if row := g.Next(); row.Len() != 0 {
		t.Fatalf("expected empty row, got %d fields", row.Len())
	}
}

func TestSeedDeterminism(t *testing.T) {
	schema := domain.Schema{
		{Name: "id", Type: "UInt32"},
		{Name: "label", Type: "String"},
		{Name: "ratio", Type: "Float32"},
		{Name: "day", Type: "Date"},
		{Name: "ts", Type: "DateTime"},
		{Name: "flag", Type: "Bool"},
		{Name: "ref", Type: "UUID"},
	}
	hints := map[string]interface{}{
		"label": []interface{}{"A", "B", "C"},
	}

	a, err := New(schema, hints, int64Ptr(42), WithClock(fixedClock(refTime)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(schema, hints, int64Ptr(42), WithClock(fixedClock(refTime)))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		ra, rb := a.Next(), b.Next()
		if !reflect.DeepEqual(ra.Values(), rb.Values()) {
			t.Fatalf("row %d diverged:\n%v\n%v", i, ra.Values(), rb.Values())
		}
	}
}

func TestUInt8Range(t *testing.T) {
	g, err := New(domain.Schema{{Name: "v", Type: "UInt8"}}, nil, int64Ptr(7))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10000; i++ {
		v, _ := g.Next().Value("v")
		n, ok := v.(uint64)
		if !ok {
			t.Fatalf("expected uint64, got %T", v)
		}
		if n > 255 {
			t.Fatalf("UInt8 value out of range: %d", n)
		}
	}
}

func TestBoolCoversBothValues(t *testing.T) {
	g, err := New(domain.Schema{{Name: "b", Type: "Bool"}}, nil, int64Ptr(3))
	if err != nil {
		t.Fatal(err)
	}
	var sawTrue, sawFalse bool
	for i := 0; i < 1000; i++ {
		v, _ := g.Next().Value("b")
		if v.(bool) {
			sawTrue = true
		} else {
			sawFalse = true
		}
	}
	if !sawTrue || !sawFalse {
		t.Fatalf("expected both booleans over 1000 draws: true=%v false=%v", sawTrue, sawFalse)
	}
}

func TestUnknownTypeYieldsNilAndOneWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerWithWriter("warn", &buf)

	g, err := New(domain.Schema{{Name: "x", Type: "Weird42"}}, nil, int64Ptr(1), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	row := g.Next()
	v, ok := row.Value("x")
	if !ok {
		t.Fatal("expected field x")
	}
	if v != nil {
		t.Fatalf("expected nil for unknown type, got %#v", v)
	}

	warnings := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(warnings) != 1 || warnings[0] == "" {
		t.Fatalf("expected exactly one warning, got %d: %q", len(warnings), buf.String())
	}

	// Further rows must not repeat the warning.
	g.Next()
	if got := strings.Count(buf.String(), "type.unknown"); got != 1 {
		t.Fatalf("expected warning emitted once, got %d", got)
	}
}

func TestParametricTypeStripping(t *testing.T) {
	plain, err := New(domain.Schema{{Name: "s", Type: "String"}}, nil, int64Ptr(9))
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := New(domain.Schema{{Name: "s", Type: "LowCardinality(String)"}}, nil, int64Ptr(9))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 200; i++ {
		a, _ := plain.Next().Value("s")
		b, _ := wrapped.Next().Value("s")
		if a.(string) != b.(string) {
			t.Fatalf("same seed diverged for String vs LowCardinality(String): %q vs %q", a, b)
		}
		s := a.(string)
		if len(s) < 5 || len(s) > 15 {
			t.Fatalf("string length out of [5, 15]: %q", s)
		}
		for _, r := range s {
			if !strings.ContainsRune(alphanumericRunes, r) {
				t.Fatalf("non-alphanumeric rune %q in %q", r, s)
			}
		}
	}
}

const alphanumericRunes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func TestDateWithinLookbackWindow(t *testing.T) {
	g, err := New(domain.Schema{{Name: "d", Type: "Date"}}, nil, int64Ptr(5), WithClock(fixedClock(refTime)))
	if err != nil {
		t.Fatal(err)
	}
	earliest := refTime.AddDate(0, 0, -365)
	for i := 0; i < 1000; i++ {
		v, _ := g.Next().Value("d")
		d, ok := v.(domain.CivilDate)
		if !ok {
			t.Fatalf("expected CivilDate, got %T", v)
		}
		m := d.Midnight()
		if m.Before(earliest.Truncate(24*time.Hour).AddDate(0, 0, -1)) || m.After(refTime.AddDate(0, 0, 1)) {
			t.Fatalf("date %s outside lookback window", d)
		}
	}
}

func TestDateTimeWithinLookbackWindow(t *testing.T) {
	g, err := New(domain.Schema{{Name: "ts", Type: "DateTime64(3)"}}, nil, int64Ptr(5), WithClock(fixedClock(refTime)))
	if err != nil {
		t.Fatal(err)
	}
	earliest := refTime.AddDate(0, 0, -365)
	for i := 0; i < 1000; i++ {
		v, _ := g.Next().Value("ts")
		ts, ok := v.(time.Time)
		if !ok {
			t.Fatalf("expected time.Time, got %T", v)
		}
		if ts.Before(earliest) || ts.After(refTime) {
			t.Fatalf("timestamp %v outside [%v, %v]", ts, earliest, refTime)
		}
		if ts.Nanosecond() != 0 {
			t.Fatalf("expected whole seconds, got %v", ts)
		}
	}
}

func TestGenerateByType(t *testing.T) {
	g, err := New(domain.Schema{}, nil, int64Ptr(2))
	if err != nil {
		t.Fatal(err)
	}
	if v := g.GenerateByType("UInt16"); v.(uint64) > 65535 {
		t.Fatalf("UInt16 out of range: %v", v)
	}
	if v := g.GenerateByType("Int8"); v.(int64) < -128 || v.(int64) > 127 {
		t.Fatalf("Int8 out of range: %v", v)
	}
	if v := g.GenerateByType("Nullable(UUID)"); len(v.(string)) != 36 {
		t.Fatalf("unexpected UUID: %v", v)
	}
	if v := g.GenerateByType("AggregateFunction(sum, UInt64)"); v != nil {
		t.Fatalf("expected nil for unregistered type, got %v", v)
	}
}
