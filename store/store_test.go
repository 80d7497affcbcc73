package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/manybody/secondq/errors"
)

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	db, err := Open(dbPath, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, SQLiteBusyTimeoutMS, busyTimeout)
}

func TestOpenWithMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"schema_migrations", "derivations"} {
		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	// A second run skips everything already recorded.
	require.NoError(t, Migrate(db, nil))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)
}

func TestDerivationStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	s := NewDerivationStore(db)
	ctx := context.Background()

	saved, err := s.Save(ctx, &Derivation{
		Name:      "fock-doubles",
		Kind:      "bch",
		Input:     "{ a+(o0) a-(o1) }",
		Result:    "-{ a+(o0) a-(o1) }",
		TermCount: 1,
		Order:     2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "fock-doubles", got.Name)
	assert.Equal(t, "bch", got.Kind)
	assert.Equal(t, saved.Input, got.Input)
	assert.Equal(t, saved.Result, got.Result)
	assert.Equal(t, 1, got.TermCount)
	assert.Equal(t, 2, got.Order)
}

func TestDerivationStoreSaveRequiresName(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewDerivationStore(db).Save(context.Background(), &Derivation{})
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestDerivationStoreGetMissing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewDerivationStore(db).Get(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDerivationStoreListNewestFirst(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	s := NewDerivationStore(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		_, err := s.Save(ctx, &Derivation{
			Name:      name,
			Kind:      "normal",
			Input:     "1",
			Result:    "1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
	assert.Equal(t, "first", list[2].Name)
}

func TestDerivationStoreDelete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	s := NewDerivationStore(db)
	ctx := context.Background()

	saved, err := s.Save(ctx, &Derivation{Name: "gone", Kind: "canon", Input: "1", Result: "1"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, saved.ID))

	_, err = s.Get(ctx, saved.ID)
	assert.True(t, errors.IsNotFoundError(err))

	err = s.Delete(ctx, saved.ID)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
