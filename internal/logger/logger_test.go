package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		env, level string
		want       zerolog.Level
	}{
		{"development", "", zerolog.DebugLevel},
		{"production", "", zerolog.InfoLevel},
		{"production", "WARN", zerolog.WarnLevel},
		{"production", "nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := New(tt.env, tt.level).GetLevel(); got != tt.want {
			t.Errorf("New(%q, %q) level = %v, want %v", tt.env, tt.level, got, tt.want)
		}
	}
}
