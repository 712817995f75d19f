package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tada.sqlite")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSQLite_MissingKey(t *testing.T) {
	s, _ := openTestSQLite(t)
	v, ok, err := s.Get(context.Background(), "todos")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLite_SetOverwritesAndSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestSQLite(t)

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Set(ctx, "todos", "[]"))
	require.NoError(t, s.Set(ctx, "todos", `[{"title":"a","description":""}]`))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(ctx, "todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"title":"a","description":""}]`, v)

	at, ok, err := s2.UpdatedAt(ctx, "todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.After(before), "updated_at %v should be after %v", at, before)

	var n int
	require.NoError(t, s2.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 1, n, "upsert must not duplicate rows")
}

func TestSQLite_UsesWAL(t *testing.T) {
	s, _ := openTestSQLite(t)
	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode;").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	assert.Error(t, err)
}

func TestMySQLConfig(t *testing.T) {
	cfg, err := mysqlConfig("tada:secret@tcp(db.local:3306)/tada")
	require.NoError(t, err)
	assert.Equal(t, "tada", cfg.User)
	assert.Equal(t, "db.local:3306", cfg.Addr)
	assert.Equal(t, "tada", cfg.DBName)
	assert.Equal(t, defaultDialTimeout, cfg.Timeout)

	cfg, err = mysqlConfig("u@tcp(h:1)/d?timeout=1s")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Timeout, "explicit timeout wins")
}

func TestMySQLConfig_Rejects(t *testing.T) {
	for _, dsn := range []string{"", "u@tcp(h:1)/", "::not a dsn::"} {
		_, err := mysqlConfig(dsn)
		assert.Error(t, err, "dsn %q", dsn)
	}
}
