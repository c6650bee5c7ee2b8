package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, Log.GetLevel())

	SetLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, Log.GetLevel())

	SetLevel("loud")
	assert.Equal(t, zerolog.InfoLevel, Log.GetLevel())

	SetLevel("")
	assert.Equal(t, zerolog.InfoLevel, Log.GetLevel())
}

func TestJSONKeepsCallerAndLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	Log = Log.Level(zerolog.WarnLevel)
	var buf bytes.Buffer
	useJSON(&buf)

	assert.Equal(t, zerolog.WarnLevel, Log.GetLevel())

	Log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Log.Warn().Str("group", "pets").Msg("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "pets", line["group"])
	assert.Contains(t, line, "caller")
	assert.Contains(t, line, "time")
}
