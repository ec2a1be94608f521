package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatJSON, Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Int("records", 3).Msg("built")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "built", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 3, entry["records"])
}

func TestNew_AutoFormatIsJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatAuto, Output: &buf})
	log.Info().Msg("x")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatConsole, Output: &buf})
	log.Info().Str("category", "Work").Msg("selected")

	out := buf.String()
	assert.Contains(t, out, "selected")
	assert.Contains(t, out, "category=Work")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: FormatJSON, Output: &buf}).With().Str("run_id", "abc").Logger()

	ctx := WithContext(context.Background(), log)
	got := FromContext(ctx)
	got.Info().Msg("hi")
	assert.Contains(t, buf.String(), `"run_id":"abc"`)

	// Without an attached logger the global one is returned.
	assert.Equal(t, Logger.GetLevel(), FromContext(context.Background()).GetLevel())
}
