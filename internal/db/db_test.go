package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpticaApp/OpticaApp/internal/config"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
)

func TestDialector(t *testing.T) {
	testCases := []struct {
		engine        string
		expectedName  string
		expectedError error
	}{
		{engine: config.EngineMySQL, expectedName: "mysql"},
		{engine: config.EnginePostgres, expectedName: "postgres"},
		{engine: config.EngineSQLite, expectedName: "sqlite"},
		{engine: "oracle", expectedError: config.ErrUnknownEngine},
	}

	for _, tc := range testCases {
		t.Run(tc.engine, func(t *testing.T) {
			d, err := Dialector(&config.Config{DB: config.DB{GormEngine: tc.engine, Host: "localhost"}})
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, d.Name())
		})
	}
}

func TestOpenAndMigrate(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: config.EngineSQLite, Path: ":memory:"}}

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	require.NoError(t, Migrate(db), "migrating twice is a no-op")
}
