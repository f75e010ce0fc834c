package sqlite

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/akopylov/chfill/internal/domain"
	"github.com/akopylov/chfill/internal/timeutil"
)

type SQLiteTarget struct {
	path string
	db   *sql.DB
}

func NewSQLiteTarget(path string) *SQLiteTarget {
	return &SQLiteTarget{path: path}
}

func (t *SQLiteTarget) Connect() error {
	db, err := sql.Open("sqlite3", t.path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	t.db = db
	return nil
}

func (t *SQLiteTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *SQLiteTarget) CreateTableIfNotExists(table string, schema domain.Schema) error {
	defs := make([]string, len(schema))
	for i, col := range schema {
		defs[i] = col.Name + " " + mapColumnType(col.BaseType())
	}
	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	_, err := t.db.Exec(createSQL)
	return err
}

func mapColumnType(baseType string) string {
	switch baseType {
	case "UInt8", "UInt16", "UInt32", "Int8", "Int16", "Int32", "Int64", "Bool":
		return "INTEGER"
	case "Float32", "Float64":
		return "REAL"
	default:
		return "TEXT"
	}
}

func (t *SQLiteTarget) TruncateTable(table string) error {
	_, err := t.db.Exec("DELETE FROM " + table)
	return err
}

func (t *SQLiteTarget) InsertBatch(table string, columns []string, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := t.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		values := row.Values()
		args := make([]interface{}, len(values))
		for i, val := range values {
			args[i] = encodeValue(val)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func encodeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case time.Time:
		return timeutil.FormatDateTime(v)
	case domain.CivilDate:
		return v.String()
	case bool:
		if v {
			return 1
		}
		return 0
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return strconv.FormatUint(v, 10)
	default:
		return val
	}
}
