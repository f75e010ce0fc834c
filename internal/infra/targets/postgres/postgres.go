package postgres

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "github.com/lib/pq"

	"github.com/akopylov/chfill/internal/domain"
)

type PostgresTarget struct {
	dsn string
	db  *sql.DB
}

func NewPostgresTarget(dsn string) *PostgresTarget {
	return &PostgresTarget{dsn: dsn}
}

func (t *PostgresTarget) Connect() error {
	db, err := sql.Open("postgres", t.dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	t.db = db
	return nil
}

func (t *PostgresTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *PostgresTarget) CreateTableIfNotExists(table string, schema domain.Schema) error {
	defs := make([]string, len(schema))
	for i, col := range schema {
		defs[i] = col.Name + " " + mapColumnType(col.BaseType())
	}
	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	_, err := t.db.Exec(createSQL)
	return err
}

// mapColumnType translates a ClickHouse base type into a Postgres column
// type wide enough to hold the generated domain.
func mapColumnType(baseType string) string {
	switch baseType {
	case "UInt8", "UInt16", "Int8", "Int16", "Int32":
		return "INTEGER"
	case "UInt32", "Int64":
		return "BIGINT"
	case "UInt64", "Decimal":
		return "NUMERIC"
	case "Float32":
		return "REAL"
	case "Float64":
		return "DOUBLE PRECISION"
	case "String", "FixedString":
		return "TEXT"
	case "Date", "Date32":
		return "DATE"
	case "DateTime", "DateTime64":
		return "TIMESTAMP"
	case "Bool":
		return "BOOLEAN"
	case "UUID":
		return "UUID"
	default:
		return "TEXT"
	}
}

func (t *PostgresTarget) TruncateTable(table string) error {
	_, err := t.db.Exec("TRUNCATE TABLE " + table)
	return err
}

func (t *PostgresTarget) InsertBatch(table string, columns []string, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		rowPlaceholders := make([]string, len(columns))
		for j, val := range row.Values() {
			rowPlaceholders[j] = "$" + strconv.Itoa(i*len(columns)+j+1)
			args = append(args, encodeValue(val))
		}
		placeholders[i] = "(" + strings.Join(rowPlaceholders, ", ") + ")"
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	_, err := t.db.Exec(insertSQL, args...)
	return err
}

// encodeValue maps generated values onto types lib/pq can bind. uint64 has
// no driver representation, so large values go over the wire as text and let
// Postgres cast them into NUMERIC.
func encodeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return strconv.FormatUint(v, 10)
	case domain.CivilDate:
		return v.String()
	default:
		return val
	}
}
