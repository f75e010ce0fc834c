// Package schema extracts a column schema from ClickHouse CREATE TABLE
// statements, so a fill profile can point at the same DDL file used to
// provision the table.
package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/akopylov/chfill/internal/domain"
)

// defClauseKeywords terminate the type portion of a column definition.
var defClauseKeywords = map[string]struct{}{
	"DEFAULT":      {},
	"MATERIALIZED": {},
	"EPHEMERAL":    {},
	"ALIAS":        {},
	"CODEC":        {},
	"TTL":          {},
	"COMMENT":      {},
}

// nonColumnPrefixes start definitions inside the parentheses that are not
// columns.
var nonColumnPrefixes = []string{"INDEX", "CONSTRAINT", "PROJECTION", "PRIMARY"}

func ParseFile(path string) (domain.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseCreateTable(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseCreateTable pulls the ordered column list out of a CREATE TABLE
// statement. Engine clauses and non-column definitions are skipped; column
// order in the DDL is preserved.
func ParseCreateTable(ddl string) (domain.Schema, error) {
	body, err := columnsBlock(ddl)
	if err != nil {
		return nil, err
	}

	var schema domain.Schema
	for _, def := range splitTopLevel(body) {
		def = strings.TrimSpace(def)
		if def == "" || isNonColumn(def) {
			continue
		}
		col, ok := parseColumnDef(def)
		if !ok {
			continue
		}
		schema = append(schema, col)
	}
	if len(schema) == 0 {
		return nil, fmt.Errorf("no columns found in CREATE TABLE statement")
	}
	return schema, nil
}

// columnsBlock returns the text between the first '(' after CREATE TABLE and
// its balanced closing ')'.
func columnsBlock(ddl string) (string, error) {
	upper := strings.ToUpper(ddl)
	if !strings.Contains(upper, "CREATE TABLE") {
		return "", fmt.Errorf("not a CREATE TABLE statement")
	}
	open := strings.IndexByte(ddl, '(')
	if open < 0 {
		return "", fmt.Errorf("no column list in CREATE TABLE statement")
	}
	depth := 0
	for i := open; i < len(ddl); i++ {
		switch ddl[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return ddl[open+1 : i], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced parentheses in CREATE TABLE statement")
}

// splitTopLevel splits on commas that are not nested in parentheses or
// quotes.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	inQuote := byte(0)
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			if c == inQuote && (i == 0 || s[i-1] != '\\') {
				inQuote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			inQuote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	parts = append(parts, s[last:])
	return parts
}

func isNonColumn(def string) bool {
	upper := strings.ToUpper(def)
	for _, prefix := range nonColumnPrefixes {
		if strings.HasPrefix(upper, prefix+" ") {
			return true
		}
	}
	return false
}

func parseColumnDef(def string) (domain.ColumnSpec, bool) {
	fields := strings.Fields(def)
	if len(fields) < 2 {
		return domain.ColumnSpec{}, false
	}
	name := strings.Trim(fields[0], "`\"")
	if name == "" {
		return domain.ColumnSpec{}, false
	}

	// The type may contain spaces inside parentheses (Decimal(10, 2),
	// Enum8('a' = 1)); collect tokens until a clause keyword at depth zero.
	var typeTokens []string
	depth := 0
	for _, tok := range fields[1:] {
		if depth == 0 {
			if _, stop := defClauseKeywords[strings.ToUpper(tok)]; stop {
				break
			}
		}
		typeTokens = append(typeTokens, tok)
		depth += strings.Count(tok, "(") - strings.Count(tok, ")")
	}
	if len(typeTokens) == 0 {
		return domain.ColumnSpec{}, false
	}
	return domain.ColumnSpec{Name: name, Type: strings.Join(typeTokens, " ")}, true
}
