package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		local       bool
		debug, info bool
	}{
		{"debug/local", "debug", true, true, true},
		{"info/local", "info", true, false, true},
		{"warn/production", "warn", false, false, false},
		{"default", "", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.local)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, logger.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.info, logger.Core().Enabled(zap.InfoLevel))
			assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose", true)
	assert.Error(t, err)
}
