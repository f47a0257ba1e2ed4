package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Options{Environment: "production", Output: &buf})

	log.Debug("hidden")
	log.Info("round started", "round_id", "r1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "round started", entry["msg"])
	assert.Equal(t, "r1", entry["round_id"])
	assert.Equal(t, "caddie-api", entry["service"])
}

func TestInitDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Options{Development: true, Output: &buf})

	log.Debug("gps fix", "accuracy_m", 4)
	assert.Contains(t, buf.String(), "gps fix")
	assert.Contains(t, buf.String(), "accuracy_m=4")
}
