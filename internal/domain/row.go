package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Field is one column value of a generated row.
type Field struct {
	Name  string
	Value interface{}
}

// Row is an ordered column name to value mapping. Field order follows schema
// order, which matters for positional inserts and for JSONEachRow payloads.
type Row struct {
	fields []Field
}

func NewRow(fields []Field) Row {
	return Row{fields: fields}
}

func (r Row) Len() int { return len(r.fields) }

func (r Row) Fields() []Field { return r.fields }

func (r Row) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

func (r Row) Values() []interface{} {
	values := make([]interface{}, len(r.fields))
	for i, f := range r.fields {
		values[i] = f.Value
	}
	return values
}

func (r Row) Value(name string) (interface{}, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON emits an object whose keys appear in field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CivilDate is a calendar date without a time of day, produced for Date
// columns so targets can tell date-only values apart from timestamps.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func CivilDateOf(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Midnight returns the date at 00:00:00 UTC, for window comparisons.
func (d CivilDate) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CivilDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
