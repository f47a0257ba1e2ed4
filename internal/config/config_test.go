package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, envDuration("TEST_DURATION", time.Minute))

	t.Setenv("TEST_DURATION", "ninety")
	assert.Equal(t, time.Minute, envDuration("TEST_DURATION", time.Minute))

	assert.Equal(t, time.Hour, envDuration("TEST_DURATION_UNSET", time.Hour))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, envInt("TEST_INT", 1))

	t.Setenv("TEST_INT", "-3")
	assert.Equal(t, 1, envInt("TEST_INT", 1))

	t.Setenv("TEST_INT", "abc")
	assert.Equal(t, 7, envInt("TEST_INT", 7))
}

func TestEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, envList("TEST_LIST", nil))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"*"}, envList("TEST_LIST", []string{"*"}))
}

func TestFeatureToggles(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.GoogleSignInEnabled())
	assert.False(t, cfg.StorageEnabled())

	cfg.GoogleClientID = "id"
	cfg.GoogleClientSecret = "secret"
	cfg.S3Bucket = "scorecards"
	assert.True(t, cfg.GoogleSignInEnabled())
	assert.True(t, cfg.StorageEnabled())
}

func TestLoadDatabase(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_CONNECTION", "postgres://caddie@localhost/caddie")

	driver, connection := LoadDatabase()
	assert.Equal(t, "pgx", driver)
	assert.Equal(t, "postgres://caddie@localhost/caddie", connection)
}
