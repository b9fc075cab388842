package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestWithFieldsReturnsNewLogger(t *testing.T) {
	base := NewNop()
	derived := base.WithFields(map[string]interface{}{"ticker": "PETR4"})

	assert.NotNil(t, derived)
	assert.NotSame(t, base, derived)
}

func TestWithComponent(t *testing.T) {
	log := NewNop().WithComponent("backtest")
	assert.NotNil(t, log)
	// Must not panic when logging through a derived logger.
	log.WithError(assert.AnError).Warn("simulated failure")
}
