package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
	assert.Equal(t, logger.Warn, gormLogLevel("warn"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	err := Migrate(nil, "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestEmbeddedMigrationsAreGooseFiles(t *testing.T) {
	files, err := fs.Glob(migrationFS, migrationDir+"/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 2)

	tables := map[string]bool{}
	for _, name := range files {
		data, err := migrationFS.ReadFile(name)
		require.NoError(t, err)
		body := string(data)
		assert.Contains(t, body, "-- +goose Up", name)
		assert.Contains(t, body, "-- +goose Down", name)
		for _, table := range []string{"step1", "step2", "step3", "upload", "step4"} {
			if strings.Contains(body, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				tables[table] = true
			}
		}
	}
	assert.Len(t, tables, 5)
}
