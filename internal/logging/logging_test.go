package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger, err := New(level, false)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}

	logger, err := New("info", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose", false)
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)
	logger.WithField("k", "v").Info("discarded")
}
