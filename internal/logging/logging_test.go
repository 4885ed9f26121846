package logging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"trace", LevelTrace},
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.name), "level %q", tt.name)
	}
}

func TestThresholdDropsLowerLevels(t *testing.T) {
	var buf strings.Builder
	log := NewWithWriter(LevelInfo, &buf)

	log.Debugf("hidden %d", 1)
	log.Infof("shown %d", 2)
	log.Errorf("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "also shown")
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "[ERROR]")
}

func TestEnabled(t *testing.T) {
	log := NewWithWriter(LevelWarn, &strings.Builder{})
	assert.False(t, log.Enabled(LevelDebug))
	assert.True(t, log.Enabled(LevelWarn))
	assert.True(t, log.Enabled(LevelError))
}
