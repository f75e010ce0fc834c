package runs

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/akopylov/chfill/internal/domain"
)

type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	List(limit int, status string) ([]*domain.Run, error)
}

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) Init() error {
	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	r.db = db

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS fills (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		profile_name TEXT NOT NULL,
		target_table TEXT NOT NULL,
		target_kind TEXT NOT NULL,
		seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		stats TEXT,
		error TEXT
	)`

	_, err = r.db.Exec(createTableSQL)
	return err
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	statsJSON, completedAt, err := encodeRun(run)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO fills (
			id, profile_id, profile_name, target_table, target_kind,
			seed, config_hash, status, started_at, completed_at, stats, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		run.ID, run.ProfileID, run.ProfileName, run.Table, run.TargetKind,
		run.Seed, run.ConfigHash, run.Status,
		run.StartedAt.Format(time.RFC3339), completedAt, statsJSON, run.Error,
	)
	return err
}

func (r *SQLiteRepository) Update(run *domain.Run) error {
	statsJSON, completedAt, err := encodeRun(run)
	if err != nil {
		return err
	}

	query := `
		UPDATE fills SET
			status = ?, completed_at = ?, stats = ?, error = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query, run.Status, completedAt, statsJSON, run.Error, run.ID)
	return err
}

func (r *SQLiteRepository) Get(id string) (*domain.Run, error) {
	query := `
		SELECT id, profile_id, profile_name, target_table, target_kind,
		       seed, config_hash, status, started_at, completed_at, stats, error
		FROM fills WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, err
}

func (r *SQLiteRepository) List(limit int, status string) ([]*domain.Run, error) {
	query := `
		SELECT id, profile_id, profile_name, target_table, target_kind,
		       seed, config_hash, status, started_at, completed_at, stats, error
		FROM fills
	`
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

func encodeRun(run *domain.Run) (statsJSON string, completedAt interface{}, err error) {
	if run.Stats != nil {
		data, err := json.Marshal(run.Stats)
		if err != nil {
			return "", nil, err
		}
		statsJSON = string(data)
	}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return statsJSON, completedAt, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s rowScanner) (*domain.Run, error) {
	var run domain.Run
	var startedAt string
	var completedAt, statsJSON, errMsg sql.NullString

	err := s.Scan(
		&run.ID, &run.ProfileID, &run.ProfileName, &run.Table, &run.TargetKind,
		&run.Seed, &run.ConfigHash, &run.Status, &startedAt, &completedAt, &statsJSON, &errMsg,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid && completedAt.String != "" {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, err
		}
		run.CompletedAt = &t
	}
	if statsJSON.Valid && statsJSON.String != "" {
		var stats domain.RunStats
		if err := json.Unmarshal([]byte(statsJSON.String), &stats); err != nil {
			return nil, err
		}
		run.Stats = &stats
	}
	run.Error = errMsg.String
	return &run, nil
}
