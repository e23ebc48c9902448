package sqlx_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	libsqlx "github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	storage "progresskit/adapters/sqlx"
	"progresskit/core"
)

func newMockStore(t *testing.T) (*storage.Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	xdb := storage.NewWithDB(libsqlx.NewDb(db, "postgres"), storage.DriverPostgres)
	cleanup := func() {
		_ = db.Close()
	}
	return xdb, mock, cleanup
}

func snapshotColumns() []string {
	return []string{
		"learner_id", "total_xp", "level", "current_streak_days", "longest_streak_days",
		"last_active_date", "fire_streak", "questions_today", "correct_today",
		"concept_mastery", "unlocked_badges", "updated_at",
	}
}

func TestSQLMock_LoadMissing(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .* FROM learner_snapshots`).
		WithArgs(core.LearnerID("u1")).
		WillReturnError(sql.ErrNoRows)

	_, ok, err := store.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_Load(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	lastActive := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM learner_snapshots`).
		WithArgs(core.LearnerID("u1")).
		WillReturnRows(sqlmock.NewRows(snapshotColumns()).
			AddRow("u1", int64(245), int64(2), int64(5), int64(9),
				lastActive, int64(4), int64(3), int64(2),
				[]byte(`{"algebra":120}`), []byte(`["first-steps","on-fire"]`), lastActive))

	snap, ok, err := store.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(245), snap.TotalXP)
	require.Equal(t, int64(5), snap.CurrentStreakDays)
	require.Equal(t, int64(120), snap.ConceptMastery["algebra"])
	require.Equal(t, []core.BadgeID{"first-steps", "on-fire"}, snap.UnlockedBadges)
	require.True(t, snap.LastActiveDate.Equal(lastActive))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_SaveUpsert(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	snap := core.NewSnapshot("u1")
	snap.TotalXP = 120
	snap.Level = core.LevelOf(snap.TotalXP)
	snap.LastActiveDate = time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	snap.UnlockedBadges = []core.BadgeID{"first-steps"}
	snap.Updated = time.Now().UTC()

	mock.ExpectExec(`INSERT INTO learner_snapshots`).
		WithArgs(core.LearnerID("u1"), int64(120), int64(2),
			int64(0), int64(0), sqlmock.AnyArg(),
			int64(0), int64(0), int64(0),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), "u1", snap))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_CorruptMastery(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM learner_snapshots`).
		WithArgs(core.LearnerID("u1")).
		WillReturnRows(sqlmock.NewRows(snapshotColumns()).
			AddRow("u1", int64(10), int64(1), int64(0), int64(0),
				nil, int64(0), int64(0), int64(0),
				[]byte(`{broken`), []byte(`[]`), now))

	_, _, err := store.Load(context.Background(), "u1")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
