package ingest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSQLite creates an issues table with a few rows and returns the db path.
func seedSQLite(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issues.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`CREATE TABLE issues (
		summary TEXT, project_name TEXT, story_points REAL, description TEXT,
		updated TEXT, created TEXT, resolved TEXT
	)`)
	require.NoError(t, err)
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO issues VALUES (?, ?, ?, ?, ?, ?, ?)`, r...)
		require.NoError(t, err)
	}
	return path
}

func TestSQLSource_LoadSQLite(t *testing.T) {
	path := seedSQLite(t, [][]any{
		{"Fix login", "Platform", 3.0, "desc", "2023-03-01 09:00:00", "2023-02-20 10:00:00", "2023-03-01 09:00:00"},
		{"Add search", "Data", nil, nil, "2023-03-02 09:00:00", "2023-02-21 10:00:00", nil},
	})

	src, err := NewSQLSource(schema.SQLiteBackend, path, "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite query", src.Name())

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "sqlite", records[0].Source)
	assert.Equal(t, "Platform", records[0].Project.Value)
	assert.True(t, records[0].StoryPoints.Valid)
	_, ok := contract.ParseTimestamp(records[0].Resolved.Value)
	assert.True(t, ok, "resolved %q should parse", records[0].Resolved.Value)

	assert.False(t, records[1].StoryPoints.Valid)
	assert.False(t, records[1].Description.Valid)
	assert.False(t, records[1].Resolved.Valid)
}

func TestSQLSource_CustomQueryAliases(t *testing.T) {
	path := seedSQLite(t, [][]any{
		{"A", "Platform", 1.0, nil, nil, "2023-01-01", "2023-01-05"},
	})
	src, err := NewSQLSource(schema.SQLiteBackend, path,
		`SELECT project_name AS "Project name", resolved AS "Resolved", created FROM issues`)
	require.NoError(t, err)

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Platform", records[0].Project.Value)
	assert.Equal(t, "2023-01-05", records[0].Resolved.Value)
	assert.Equal(t, "2023-01-01", records[0].Created.Value)
	assert.False(t, records[0].Summary.Valid)
}

func TestSQLSource_Errors(t *testing.T) {
	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewSQLSource(schema.NoneBackend, "", "")
		assert.Error(t, err)
	})

	t.Run("empty result", func(t *testing.T) {
		path := seedSQLite(t, nil)
		src, err := NewSQLSource(schema.SQLiteBackend, path, "")
		require.NoError(t, err)
		_, err = src.Load(context.Background())
		assert.ErrorIs(t, err, contract.ErrNoInput)
	})

	t.Run("bad query", func(t *testing.T) {
		path := seedSQLite(t, nil)
		src, err := NewSQLSource(schema.SQLiteBackend, path, "SELECT * FROM missing_table")
		require.NoError(t, err)
		_, err = src.Load(context.Background())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, contract.ErrNoInput)
	})

	t.Run("bad mysql dsn", func(t *testing.T) {
		src, err := NewSQLSource(schema.MySQLBackend, "not a dsn", "")
		require.NoError(t, err)
		_, err = src.Load(context.Background())
		assert.Error(t, err)
	})
}
