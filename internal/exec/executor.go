package exec

import (
	"fmt"
	"time"

	"github.com/akopylov/chfill/internal/domain"
	"github.com/akopylov/chfill/internal/logging"
	"github.com/akopylov/chfill/internal/rowgen"
)

// Target is a destination table store. Implementations live under
// internal/infra/targets.
type Target interface {
	Connect() error
	Close() error
	CreateTableIfNotExists(table string, schema domain.Schema) error
	TruncateTable(table string) error
	InsertBatch(table string, columns []string, rows []domain.Row) error
}

const defaultBatchSize = 1000

type Executor struct {
	logger *logging.Logger
}

func NewExecutor(logger *logging.Logger) *Executor {
	return &Executor{logger: logger.WithComponent("exec")}
}

// Execute generates profile.Rows rows and inserts them into the target in
// batches of profile.BatchSize.
func (e *Executor) Execute(profile *domain.Profile, schema domain.Schema, gen *rowgen.RowGenerator, target Target, mode string) (*domain.RunStats, error) {
	if err := target.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to target: %w", err)
	}
	defer target.Close()

	switch mode {
	case domain.TableModeCreate:
		if err := target.CreateTableIfNotExists(profile.Table, schema); err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", profile.Table, err)
		}
	case domain.TableModeTruncate:
		if err := target.CreateTableIfNotExists(profile.Table, schema); err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", profile.Table, err)
		}
		if err := target.TruncateTable(profile.Table); err != nil {
			return nil, fmt.Errorf("failed to truncate table %s: %w", profile.Table, err)
		}
	case domain.TableModeAppend:
	default:
		return nil, fmt.Errorf("unknown table mode: %s", mode)
	}

	batchSize := profile.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	columns := schema.Names()
	startTime := time.Now()
	stats := &domain.RunStats{}
	batch := make([]domain.Row, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := target.InsertBatch(profile.Table, columns, batch); err != nil {
			return fmt.Errorf("failed to insert batch into %s: %w", profile.Table, err)
		}
		stats.RowsInserted += int64(len(batch))
		stats.Batches++
		e.logger.Infow("rows.inserted", map[string]any{
			"table":    profile.Table,
			"inserted": stats.RowsInserted,
			"total":    profile.Rows,
		})
		batch = batch[:0]
		return nil
	}

	for i := int64(0); i < profile.Rows; i++ {
		batch = append(batch, gen.Next())
		if int64(len(batch)) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	stats.DurationSeconds = time.Since(startTime).Seconds()
	return stats, nil
}
