package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/akopylov/chfill/internal/domain"
	"github.com/akopylov/chfill/internal/exec"
	"github.com/akopylov/chfill/internal/hashing"
	"github.com/akopylov/chfill/internal/infra/repos/profiles"
	"github.com/akopylov/chfill/internal/infra/repos/runs"
	"github.com/akopylov/chfill/internal/infra/targets/clickhouse"
	"github.com/akopylov/chfill/internal/infra/targets/postgres"
	"github.com/akopylov/chfill/internal/infra/targets/sqlite"
	"github.com/akopylov/chfill/internal/logging"
	"github.com/akopylov/chfill/internal/registry"
	"github.com/akopylov/chfill/internal/rowgen"
	"github.com/akopylov/chfill/internal/schema"
	"github.com/akopylov/chfill/internal/validation"
)

// FillRequest carries CLI overrides on top of a stored profile.
type FillRequest struct {
	ProfileID    string
	ProfilePath  string
	Seed         *int64
	RowsOverride int64
	Mode         string
	Target       *domain.TargetConfig
}

type FillService struct {
	profileRepo profiles.Repository
	runRepo     runs.Repository
	registry    *registry.TypeRegistry
	logger      *logging.Logger
	executor    *exec.Executor
}

func NewFillService(profileRepo profiles.Repository, runRepo runs.Repository, reg *registry.TypeRegistry, logger *logging.Logger) *FillService {
	return &FillService{
		profileRepo: profileRepo,
		runRepo:     runRepo,
		registry:    reg,
		logger:      logger.WithComponent("fill"),
		executor:    exec.NewExecutor(logger),
	}
}

// Fill loads the profile, resolves the schema, generates rows and inserts
// them into the target, recording the run in the history store. It runs to
// completion before returning.
func (s *FillService) Fill(req *FillRequest) (*domain.Run, error) {
	profile, err := s.resolveProfile(req)
	if err != nil {
		return nil, err
	}

	targetCfg := profile.Target
	if req.Target != nil {
		targetCfg = req.Target
	}
	if targetCfg == nil {
		return nil, errors.New("no target: set one in the profile or pass --target-kind/--dsn")
	}
	if err := validation.ValidateTarget(targetCfg); err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.TableModeAppend
	}
	if !validation.IsValidMode(mode) {
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}

	target, err := newTarget(targetCfg)
	if err != nil {
		return nil, err
	}

	tableSchema, err := s.resolveSchema(profile, targetCfg)
	if err != nil {
		return nil, err
	}

	seed := resolveSeed(req.Seed, profile.Seed)
	configHash, err := hashing.HashFillConfig(profile, tableSchema, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash fill config: %w", err)
	}

	gen, err := rowgen.New(tableSchema, profile.Hints, &seed, rowgen.WithLogger(s.logger), rowgen.WithRegistry(s.registry))
	if err != nil {
		return nil, fmt.Errorf("invalid hints: %w", err)
	}

	run := &domain.Run{
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
		Table:       profile.Table,
		TargetKind:  targetCfg.Kind,
		Seed:        seed,
		ConfigHash:  configHash,
		Status:      domain.RunStatusRunning,
		StartedAt:   time.Now(),
	}
	if err := s.runRepo.Create(run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Infow("fill.started", map[string]any{
		"run_id":  run.ID,
		"profile": profile.Name,
		"table":   profile.Table,
		"target":  targetCfg.Kind,
		"rows":    profile.Rows,
		"seed":    seed,
	})

	stats, err := s.executor.Execute(profile, tableSchema, gen, target, mode)
	now := time.Now()
	run.CompletedAt = &now
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		if uerr := s.runRepo.Update(run); uerr != nil {
			s.logger.Errorw("fill.record_failed", map[string]any{"run_id": run.ID, "error": uerr.Error()})
		}
		return run, err
	}

	run.Status = domain.RunStatusSuccess
	run.Stats = stats
	if err := s.runRepo.Update(run); err != nil {
		s.logger.Errorw("fill.record_failed", map[string]any{"run_id": run.ID, "error": err.Error()})
	}

	s.logger.Infow("fill.completed", map[string]any{
		"run_id":   run.ID,
		"rows":     stats.RowsInserted,
		"batches":  stats.Batches,
		"duration": stats.DurationSeconds,
	})
	return run, nil
}

// Preview resolves a profile the same way Fill does but only generates n
// rows, without touching any target store.
func (s *FillService) Preview(req *FillRequest, n int) ([]domain.Row, error) {
	profile, err := s.resolveProfile(req)
	if err != nil {
		return nil, err
	}

	targetCfg := profile.Target
	if req.Target != nil {
		targetCfg = req.Target
	}
	tableSchema, err := s.resolveSchema(profile, targetCfg)
	if err != nil {
		return nil, err
	}

	seed := resolveSeed(req.Seed, profile.Seed)
	gen, err := rowgen.New(tableSchema, profile.Hints, &seed, rowgen.WithLogger(s.logger), rowgen.WithRegistry(s.registry))
	if err != nil {
		return nil, fmt.Errorf("invalid hints: %w", err)
	}

	rows := make([]domain.Row, n)
	for i := range rows {
		rows[i] = gen.Next()
	}
	return rows, nil
}

func (s *FillService) GetRun(id string) (*domain.Run, error) {
	return s.runRepo.Get(id)
}

func (s *FillService) ListRuns(limit int, status string) ([]*domain.Run, error) {
	return s.runRepo.List(limit, status)
}

func (s *FillService) resolveProfile(req *FillRequest) (*domain.Profile, error) {
	var profile *domain.Profile
	var err error
	switch {
	case req.ProfilePath != "":
		profile, err = s.profileRepo.GetByPath(req.ProfilePath)
	case req.ProfileID != "":
		profile, err = s.profileRepo.Get(req.ProfileID)
	default:
		return nil, errors.New("either a profile id or a profile path is required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if req.RowsOverride > 0 {
		profile.Rows = req.RowsOverride
	}
	if req.Target != nil {
		profile.Target = req.Target
	}
	if err := validation.ValidateProfile(profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return profile, nil
}

// resolveSchema prefers inline columns, then a DDL file, then schema
// discovery against a ClickHouse target.
func (s *FillService) resolveSchema(profile *domain.Profile, targetCfg *domain.TargetConfig) (domain.Schema, error) {
	if len(profile.Columns) > 0 {
		return profile.Columns, nil
	}
	if profile.SchemaFile != "" {
		parsed, err := schema.ParseFile(profile.SchemaFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema file: %w", err)
		}
		return parsed, nil
	}
	if targetCfg != nil && targetCfg.Kind == domain.TargetKindClickHouse {
		ch, err := clickhouse.NewClickHouseTarget(targetCfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := ch.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect for schema discovery: %w", err)
		}
		defer ch.Close()
		discovered, err := ch.DescribeTable(profile.Table)
		if err != nil {
			return nil, fmt.Errorf("failed to describe table: %w", err)
		}
		return discovered, nil
	}
	return nil, errors.New("profile has no schema source")
}

func newTarget(cfg *domain.TargetConfig) (exec.Target, error) {
	switch cfg.Kind {
	case domain.TargetKindClickHouse:
		return clickhouse.NewClickHouseTarget(cfg.DSN)
	case domain.TargetKindPostgres:
		return postgres.NewPostgresTarget(cfg.DSN), nil
	case domain.TargetKindSQLite:
		return sqlite.NewSQLiteTarget(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported target kind: %s", cfg.Kind)
	}
}

func resolveSeed(reqSeed, profileSeed *int64) int64 {
	if reqSeed != nil {
		return *reqSeed
	}
	if profileSeed != nil {
		return *profileSeed
	}
	return rowgen.RandomSeed()
}
