package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestInfo_writesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("user signed up", map[string]any{"user_id": "abc"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "user signed up", entry["message"])
	require.Equal(t, "abc", entry["user_id"])
}

func TestLog_nilFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Log(zerolog.WarnLevel, "slow request", nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
}
