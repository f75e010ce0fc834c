package validation

import (
	"errors"
	"fmt"

	"github.com/akopylov/chfill/internal/domain"
)

// ValidateProfile checks everything that can be checked before a generator is
// built: identifiers, row counts, schema shape, and that hints point at
// declared columns. Hint payload shapes are validated by the generator itself
// at construction.
func ValidateProfile(p *domain.Profile) error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if p.Table == "" {
		return errors.New("table is required")
	}
	if !IsValidQualifiedTable(p.Table) {
		return fmt.Errorf("invalid table identifier: %s", p.Table)
	}
	if p.Rows <= 0 {
		return fmt.Errorf("rows must be > 0, got %d", p.Rows)
	}
	if p.BatchSize < 0 {
		return fmt.Errorf("batch_size must be >= 0, got %d", p.BatchSize)
	}

	if p.SchemaFile == "" && len(p.Columns) == 0 && (p.Target == nil || p.Target.Kind != domain.TargetKindClickHouse) {
		return errors.New("profile needs inline columns, a schema_file, or a clickhouse target to describe the table")
	}

	if len(p.Columns) > 0 {
		if err := ValidateSchema(p.Columns); err != nil {
			return err
		}
		for name := range p.Hints {
			if _, ok := p.Columns.Column(name); !ok {
				return fmt.Errorf("hint for undeclared column: %s", name)
			}
		}
	}

	if p.Target != nil {
		if err := ValidateTarget(p.Target); err != nil {
			return err
		}
	}
	return nil
}

func ValidateSchema(s domain.Schema) error {
	seen := make(map[string]bool)
	for _, col := range s {
		if col.Name == "" {
			return errors.New("column name is required")
		}
		if !IsValidIdentifier(col.Name) {
			return fmt.Errorf("invalid column identifier: %s", col.Name)
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true
		if col.Type == "" {
			return fmt.Errorf("column %s: type is required", col.Name)
		}
	}
	return nil
}

func ValidateTarget(t *domain.TargetConfig) error {
	if t.Kind == "" {
		return errors.New("target kind is required")
	}
	if t.DSN == "" {
		return errors.New("target dsn is required")
	}
	switch t.Kind {
	case domain.TargetKindClickHouse, domain.TargetKindPostgres, domain.TargetKindSQLite:
		return nil
	default:
		return fmt.Errorf("unsupported target kind: %s", t.Kind)
	}
}

func IsValidMode(mode string) bool {
	switch mode {
	case domain.TableModeCreate, domain.TableModeTruncate, domain.TableModeAppend:
		return true
	default:
		return false
	}
}
