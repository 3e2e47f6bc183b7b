package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "stockledger-api", Output: &buf})

	l.Named("engine").Info().Int64("movement_id", 7).Msg("aplicado")
	l.Debug().Msg("no se escribe")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "stockledger-api", entry["service"])
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "aplicado", entry["message"])
	assert.EqualValues(t, 7, entry["movement_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("DEBUG").String())
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("ruido").String())
}
