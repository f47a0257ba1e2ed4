package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	database, err := Init("sqlite", filepath.Join(t.TempDir(), "unique.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	_, err = database.Exec(`CREATE TABLE tees (id TEXT PRIMARY KEY, name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO tees (id, name) VALUES ('1', 'blue')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO tees (id, name) VALUES ('2', 'blue')`)
	assert.True(t, IsUniqueViolation(err))

	_, err = database.Exec(`INSERT INTO tees (id, name) VALUES ('1', 'white')`)
	assert.True(t, IsUniqueViolation(err))

	_, err = database.Exec(`INSERT INTO tees (id) VALUES ('3')`)
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: tees.name")))
	assert.False(t, IsUniqueViolation(nil))
}
