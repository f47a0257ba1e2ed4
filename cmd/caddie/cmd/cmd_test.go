package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION", filepath.Join(t.TempDir(), "caddie.db")+"?_pragma=foreign_keys(1)")
}

func run(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestMigrateAndSeed(t *testing.T) {
	useTempDB(t)

	_, err := run(t, MigrateCmd(), "up")
	require.NoError(t, err)

	out, err := run(t, MigrateCmd(), "status")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 6")

	out, err = run(t, SeedCmd(), "courses")
	require.NoError(t, err)
	assert.Contains(t, out, "courses created: 2")

	out, err = run(t, SeedCmd(), "courses")
	require.NoError(t, err)
	assert.Contains(t, out, "courses created: 0, already present: 2")
}

func TestUserPromoteUnknownEmail(t *testing.T) {
	useTempDB(t)

	_, err := run(t, UserCmd(), "promote", "nobody@example.com")
	assert.Error(t, err)
}

func TestTokensCleanup(t *testing.T) {
	useTempDB(t)

	out, err := run(t, TokensCmd(), "cleanup", "--older-than", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 0 tokens")
}
