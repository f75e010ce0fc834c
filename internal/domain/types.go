package domain

import (
	"strings"
	"time"
)

// ColumnSpec is one column of a table schema. Type carries the full declared
// type text, e.g. "UInt32" or "LowCardinality(String)".
type ColumnSpec struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// BaseType returns the declared type with wrapper types unwrapped and any
// parametric suffix stripped: "LowCardinality(String)" and
// "Nullable(DateTime64(3))" resolve to "String" and "DateTime64".
func (c ColumnSpec) BaseType() string {
	return BaseType(c.Type)
}

// wrapperTypes carry no value domain of their own; the inner type decides
// what gets generated.
var wrapperTypes = []string{"LowCardinality", "Nullable"}

// BaseType strips wrappers and the parametric suffix from a declared column type.
func BaseType(colType string) string {
	colType = strings.TrimSpace(colType)
	for unwrapped := true; unwrapped; {
		unwrapped = false
		for _, w := range wrapperTypes {
			prefix := w + "("
			if strings.HasPrefix(colType, prefix) && strings.HasSuffix(colType, ")") {
				colType = strings.TrimSpace(colType[len(prefix) : len(colType)-1])
				unwrapped = true
			}
		}
	}
	if i := strings.IndexByte(colType, '('); i >= 0 {
		colType = colType[:i]
	}
	return strings.TrimSpace(colType)
}

// Schema is an ordered list of columns. Order is preserved into generated rows.
type Schema []ColumnSpec

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

func (s Schema) Column(name string) (ColumnSpec, bool) {
	for _, col := range s {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnSpec{}, false
}

// Profile describes one fill job: where the schema comes from, how many rows
// to generate, per-column hints, and the target to load into.
type Profile struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Table       string                 `json:"table" yaml:"table"`
	SchemaFile  string                 `json:"schema_file,omitempty" yaml:"schema_file,omitempty"`
	Columns     Schema                 `json:"columns,omitempty" yaml:"columns,omitempty"`
	Hints       map[string]interface{} `json:"hints,omitempty" yaml:"hints,omitempty"`
	Seed        *int64                 `json:"seed,omitempty" yaml:"seed,omitempty"`
	Rows        int64                  `json:"rows" yaml:"rows"`
	BatchSize   int64                  `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
	Target      *TargetConfig          `json:"target,omitempty" yaml:"target,omitempty"`
}

// TargetConfig names a destination database. For clickhouse the DSN is the
// HTTP interface base URL (credentials and ?database= in the URL); for
// postgres and sqlite it is the driver DSN.
type TargetConfig struct {
	Kind string `json:"kind" yaml:"kind"`
	DSN  string `json:"dsn" yaml:"dsn"`
}

const (
	TargetKindClickHouse = "clickhouse"
	TargetKindPostgres   = "postgres"
	TargetKindSQLite     = "sqlite"
)

const (
	TableModeCreate   = "create"
	TableModeTruncate = "truncate"
	TableModeAppend   = "append"
)

// Run is one recorded fill execution.
type Run struct {
	ID          string     `json:"id"`
	ProfileID   string     `json:"profile_id"`
	ProfileName string     `json:"profile_name"`
	Table       string     `json:"table"`
	TargetKind  string     `json:"target_kind"`
	Seed        int64      `json:"seed"`
	ConfigHash  string     `json:"config_hash"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Stats       *RunStats  `json:"stats,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type RunStats struct {
	RowsInserted    int64   `json:"rows_inserted"`
	Batches         int64   `json:"batches"`
	DurationSeconds float64 `json:"duration_seconds"`
}
