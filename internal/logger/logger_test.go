package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  zerolog.Level
		known bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{"INFO", zerolog.InfoLevel, true},
		{" warning ", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, true},
		{"verbose", zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, known := parseLogLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestInit_JSONToWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	l := Init(Options{Level: "info", Format: "json", Out: &buf, Service: "devapi"})

	l.Info().Str("component", "test").Msg("hello")
	l.Debug().Msg("dropped")

	out := buf.String()
	assert.Contains(t, out, `"service":"devapi"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"message":"hello"`)
	assert.NotContains(t, out, "dropped")
}

func TestInit_UnknownLevelWarns(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	Init(Options{Level: "chatty", Format: "console", Out: &buf})

	out := buf.String()
	assert.Contains(t, out, "Unknown log level, using info")
	assert.Contains(t, out, "chatty")
	assert.NotContains(t, out, "\x1b[", "no colour codes when not writing to a terminal")
}
