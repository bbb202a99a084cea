package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewLogger(t *testing.T) {
	testCases := []struct {
		name          string
		loglevel      string
		logformat     string
		debugEnabled  bool
		expectedError error
	}{
		{
			name:      "valid text logger",
			loglevel:  "INFO",
			logformat: "text",
		},
		{
			name:      "valid json logger",
			loglevel:  "INFO",
			logformat: "json",
		},
		{
			name:         "valid tint logger",
			loglevel:     "DEBUG",
			logformat:    "tint",
			debugEnabled: true,
		},
		{
			name:         "lower case level",
			loglevel:     "debug",
			logformat:    "text",
			debugEnabled: true,
		},
		{
			name:          "invalid log format",
			loglevel:      "INFO",
			logformat:     "invalid format",
			expectedError: ErrLoggerInvalidLogFormat,
		},
		{
			name:          "invalid log level",
			loglevel:      "INVALID_LEVEL",
			logformat:     "text",
			expectedError: ErrLoggerInvalidLogLevel,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			buf := &bytes.Buffer{}

			// when
			sut, err := NewLogger(tc.loglevel, tc.logformat, WithWriter(buf))

			// then
			assert.ErrorIs(t, err, tc.expectedError)
			if tc.expectedError != nil {
				return
			}

			sut.Info("test")
			assert.True(t, sut.Enabled(context.Background(), slog.LevelInfo))
			assert.Equal(t, tc.debugEnabled, sut.Enabled(context.Background(), slog.LevelDebug))
			assert.Contains(t, buf.String(), "test")
		})
	}
}

func Test_NewLoggerJSONOutput(t *testing.T) {
	// given
	buf := &bytes.Buffer{}
	sut, err := NewLogger("WARN", "json", WithWriter(buf))
	require.NoError(t, err)

	// when
	sut.Info("dropped")
	sut.Warn("kept", slog.Int("pending", 3))

	// then
	record := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.InDelta(t, 3, record["pending"], 0)
}
