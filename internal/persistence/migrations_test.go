package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunMigrations_AppliesMatchingFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"0002_activity_service.sql": "CREATE TABLE b ();",
		"0001_activity_service.sql": "CREATE TABLE a ();",
		"0001_user_service.sql":     "CREATE TABLE users ();",
		"README.md":                 "not sql",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE a \(\);`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`CREATE TABLE b \(\);`).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err = RunMigrations(context.Background(), mock, dir, "_activity_service.sql", zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_MissingDir(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = RunMigrations(context.Background(), mock, filepath.Join(t.TempDir(), "absent"), ".sql", zap.NewNop())
	assert.Error(t, err)
}

func TestNilHandlesReportUnavailable(t *testing.T) {
	var pg *Postgres
	assert.Error(t, pg.Ping(context.Background()))

	var rd *Redis
	assert.Error(t, rd.Ping(context.Background()))
}
