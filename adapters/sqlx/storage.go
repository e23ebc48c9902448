package sqlx

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// database drivers registered for sqlx.Connect
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"progresskit/core"
	"progresskit/engine"
)

// Driver selects the SQL dialect used for upserts.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Config holds SQL connection configuration.
type Config struct {
	Driver          Driver        `json:"driver" env:"PROGRESSKIT_SQL_DRIVER"`
	DSN             string        `json:"dsn" env:"PROGRESSKIT_SQL_DSN"`
	MaxOpenConns    int           `json:"max_open_conns" env:"PROGRESSKIT_SQL_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `json:"max_idle_conns" env:"PROGRESSKIT_SQL_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" env:"PROGRESSKIT_SQL_CONN_MAX_LIFETIME"`
}

// DefaultConfig returns sensible defaults for the given driver.
func DefaultConfig(driver Driver) Config {
	return Config{
		Driver:          driver,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Schema is the snapshot table DDL. The JSON columns keep the mastery map and
// badge list in the same shape the engine serializes elsewhere.
const Schema = `
CREATE TABLE IF NOT EXISTS learner_snapshots (
    learner_id          VARCHAR(128) PRIMARY KEY,
    total_xp            BIGINT       NOT NULL DEFAULT 0,
    level               BIGINT       NOT NULL DEFAULT 1,
    current_streak_days BIGINT       NOT NULL DEFAULT 0,
    longest_streak_days BIGINT       NOT NULL DEFAULT 0,
    last_active_date    TIMESTAMP    NULL,
    fire_streak         BIGINT       NOT NULL DEFAULT 0,
    questions_today     BIGINT       NOT NULL DEFAULT 0,
    correct_today       BIGINT       NOT NULL DEFAULT 0,
    concept_mastery     TEXT         NOT NULL,
    unlocked_badges     TEXT         NOT NULL,
    updated_at          TIMESTAMP    NOT NULL
);`

// Store implements engine.Store on a SQL database via sqlx.
// One row per learner; Save is a single-statement upsert, so a write is
// atomic without an explicit transaction.
type Store struct {
	db     *sqlx.DB
	driver Driver
}

// New connects to the database and verifies the connection.
func New(cfg Config) (*Store, error) {
	db, err := sqlx.Connect(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return &Store{db: db, driver: cfg.Driver}, nil
}

// NewWithDB creates a Store using an existing sqlx.DB (useful for testing).
func NewWithDB(db *sqlx.DB, driver Driver) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

type snapshotRow struct {
	LearnerID         string       `db:"learner_id"`
	TotalXP           int64        `db:"total_xp"`
	Level             int64        `db:"level"`
	CurrentStreakDays int64        `db:"current_streak_days"`
	LongestStreakDays int64        `db:"longest_streak_days"`
	LastActiveDate    sql.NullTime `db:"last_active_date"`
	FireStreak        int64        `db:"fire_streak"`
	QuestionsToday    int64        `db:"questions_today"`
	CorrectToday      int64        `db:"correct_today"`
	ConceptMastery    []byte       `db:"concept_mastery"`
	UnlockedBadges    []byte       `db:"unlocked_badges"`
	UpdatedAt         time.Time    `db:"updated_at"`
}

func (s *Store) Load(ctx context.Context, learner core.LearnerID) (core.ProgressionSnapshot, bool, error) {
	const q = `SELECT learner_id, total_xp, level, current_streak_days, longest_streak_days,
       last_active_date, fire_streak, questions_today, correct_today,
       concept_mastery, unlocked_badges, updated_at
FROM learner_snapshots WHERE learner_id = ?`

	var row snapshotRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(q), learner)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ProgressionSnapshot{}, false, nil
	}
	if err != nil {
		return core.ProgressionSnapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap := core.ProgressionSnapshot{
		LearnerID:         core.LearnerID(row.LearnerID),
		TotalXP:           row.TotalXP,
		Level:             row.Level,
		CurrentStreakDays: row.CurrentStreakDays,
		LongestStreakDays: row.LongestStreakDays,
		FireStreak:        row.FireStreak,
		QuestionsToday:    row.QuestionsToday,
		CorrectToday:      row.CorrectToday,
		ConceptMastery:    map[string]int64{},
		Updated:           row.UpdatedAt,
	}
	if row.LastActiveDate.Valid {
		snap.LastActiveDate = row.LastActiveDate.Time.UTC()
	}
	if len(row.ConceptMastery) > 0 {
		if err := json.Unmarshal(row.ConceptMastery, &snap.ConceptMastery); err != nil {
			return core.ProgressionSnapshot{}, false, fmt.Errorf("%w: concept_mastery for %s: %v", engine.ErrCorruptSnapshot, learner, err)
		}
	}
	if len(row.UnlockedBadges) > 0 {
		if err := json.Unmarshal(row.UnlockedBadges, &snap.UnlockedBadges); err != nil {
			return core.ProgressionSnapshot{}, false, fmt.Errorf("%w: unlocked_badges for %s: %v", engine.ErrCorruptSnapshot, learner, err)
		}
	}
	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, learner core.LearnerID, snap core.ProgressionSnapshot) error {
	mastery, err := json.Marshal(snap.ConceptMastery)
	if err != nil {
		return fmt.Errorf("failed to encode concept_mastery: %w", err)
	}
	badges, err := json.Marshal(snap.UnlockedBadges)
	if err != nil {
		return fmt.Errorf("failed to encode unlocked_badges: %w", err)
	}

	var lastActive sql.NullTime
	if !snap.LastActiveDate.IsZero() {
		lastActive = sql.NullTime{Time: snap.LastActiveDate.UTC(), Valid: true}
	}

	q := upsertQuery(s.driver)
	_, err = s.db.ExecContext(ctx, s.db.Rebind(q),
		learner, snap.TotalXP, snap.Level,
		snap.CurrentStreakDays, snap.LongestStreakDays, lastActive,
		snap.FireStreak, snap.QuestionsToday, snap.CorrectToday,
		mastery, badges, snap.Updated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func upsertQuery(driver Driver) string {
	const insert = `INSERT INTO learner_snapshots
    (learner_id, total_xp, level, current_streak_days, longest_streak_days,
     last_active_date, fire_streak, questions_today, correct_today,
     concept_mastery, unlocked_badges, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if driver == DriverMySQL {
		return insert + `
ON DUPLICATE KEY UPDATE
    total_xp = VALUES(total_xp), level = VALUES(level),
    current_streak_days = VALUES(current_streak_days),
    longest_streak_days = VALUES(longest_streak_days),
    last_active_date = VALUES(last_active_date),
    fire_streak = VALUES(fire_streak),
    questions_today = VALUES(questions_today),
    correct_today = VALUES(correct_today),
    concept_mastery = VALUES(concept_mastery),
    unlocked_badges = VALUES(unlocked_badges),
    updated_at = VALUES(updated_at)`
	}
	return insert + `
ON CONFLICT (learner_id) DO UPDATE SET
    total_xp = EXCLUDED.total_xp, level = EXCLUDED.level,
    current_streak_days = EXCLUDED.current_streak_days,
    longest_streak_days = EXCLUDED.longest_streak_days,
    last_active_date = EXCLUDED.last_active_date,
    fire_streak = EXCLUDED.fire_streak,
    questions_today = EXCLUDED.questions_today,
    correct_today = EXCLUDED.correct_today,
    concept_mastery = EXCLUDED.concept_mastery,
    unlocked_badges = EXCLUDED.unlocked_badges,
    updated_at = EXCLUDED.updated_at`
}

var _ engine.Store = (*Store)(nil)
