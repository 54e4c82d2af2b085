package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_ValidLevels(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"TRACE", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"FATAL", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"PANIC", zerolog.PanicLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			logger := New(tt.input)
			if logger.GetLevel() != tt.want {
				t.Errorf("New(%q) level = %v, want %v", tt.input, logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	tests := []string{
		"",
		"invalid",
		"verbose",
		"critical",
		"123",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			logger := New(input)
			if logger.GetLevel() != zerolog.InfoLevel {
				t.Errorf("New(%q) level = %v, want %v (default)", input, logger.GetLevel(), zerolog.InfoLevel)
			}
		})
	}
}

func TestNew_TrimsWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"  debug  ", zerolog.DebugLevel},
		{"\twarn\n", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			logger := New(tt.input)
			if logger.GetLevel() != tt.want {
				t.Errorf("New(%q) level = %v, want %v", tt.input, logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNew_MixedCase(t *testing.T) {
	logger := New("DeBuG")
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("mixed case 'DeBuG' should parse to debug level")
	}
}
