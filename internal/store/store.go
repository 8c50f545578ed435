// Package store persists snapshots on gorm, against sqlite for local use or
// postgres when given a postgres DSN.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrSnapshotExists is returned when a scenario already has a snapshot for the date.
var ErrSnapshotExists = errors.New("snapshot already exists for scenario and date")

// IsPostgresDSN reports whether dsn addresses a postgres server rather than a sqlite file
func IsPostgresDSN(dsn string) bool {
	d := strings.TrimSpace(dsn)
	return strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://") ||
		strings.Contains(d, "host=")
}

// Open opens a GORM DB from DSN. Postgres DSNs use the pgx driver with the
// simple protocol (safe behind poolers); anything else is a sqlite path,
// ":memory:" included.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	var dialector gorm.Dialector
	if IsPostgresDSN(dsn) {
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// SnapshotStore is the append-only history of scenario snapshots
type SnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore wraps an open database
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Close releases the underlying database connections
func (s *SnapshotStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database: %w", err)
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the snapshot table
func (s *SnapshotStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&domain.Snapshot{})
}

// Create stores a new snapshot. A second snapshot for the same scenario and
// date is rejected with ErrSnapshotExists.
func (s *SnapshotStore) Create(ctx context.Context, snap *domain.Snapshot) error {
	if snap.ScenarioID == uuid.Nil {
		return fmt.Errorf("snapshot has no scenario id")
	}
	snap.SnapshotDate = dateutil.Normalize(snap.SnapshotDate)
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Snapshot{}).
		Where("scenario_id = ? AND snapshot_date = ?", snap.ScenarioID, snap.SnapshotDate).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing snapshot: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, dateutil.Format(snap.SnapshotDate))
	}

	if err := s.db.WithContext(ctx).Create(snap).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrSnapshotExists, dateutil.Format(snap.SnapshotDate))
		}
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	return nil
}

// List returns a scenario's snapshots in chronological order
func (s *SnapshotStore) List(ctx context.Context, scenarioID uuid.UUID) ([]domain.Snapshot, error) {
	var snaps []domain.Snapshot
	if err := s.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("snapshot_date ASC").
		Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	for i := range snaps {
		normalize(&snaps[i])
	}
	return snaps, nil
}

// Latest returns the most recent snapshot, nil when there is none
func (s *SnapshotStore) Latest(ctx context.Context, scenarioID uuid.UUID) (*domain.Snapshot, error) {
	return s.first(ctx, s.db.WithContext(ctx).Where("scenario_id = ?", scenarioID))
}

// LatestBefore returns the most recent snapshot strictly before date, nil when there is none
func (s *SnapshotStore) LatestBefore(ctx context.Context, scenarioID uuid.UUID, date time.Time) (*domain.Snapshot, error) {
	return s.first(ctx, s.db.WithContext(ctx).
		Where("scenario_id = ? AND snapshot_date < ?", scenarioID, dateutil.Normalize(date)))
}

func (s *SnapshotStore) first(_ context.Context, q *gorm.DB) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	err := q.Order("snapshot_date DESC").Limit(1).Take(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	normalize(&snap)
	return &snap, nil
}

// DeleteScenario removes a scenario's whole history and returns the number of snapshots deleted
func (s *SnapshotStore) DeleteScenario(ctx context.Context, scenarioID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).Where("scenario_id = ?", scenarioID).Delete(&domain.Snapshot{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete snapshots: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// normalize restores UTC calendar dates after a round trip through the driver
func normalize(snap *domain.Snapshot) {
	snap.SnapshotDate = dateutil.Normalize(snap.SnapshotDate)
	if snap.ProjectedRetirementDate != nil {
		d := dateutil.Normalize(*snap.ProjectedRetirementDate)
		snap.ProjectedRetirementDate = &d
	}
}
