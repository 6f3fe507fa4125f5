package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, err := New(Config{
		Level:       "info",
		OutputPaths: []string{"stdout"},
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Embedded zap logger is usable directly.
	logger.Info("logger created")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{
		Level:       "verbose",
		OutputPaths: []string{"stdout"},
	})
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.False(t, cfg.Development)
	assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
}

func TestDevelopmentConfig(t *testing.T) {
	cfg := DevelopmentConfig()

	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.Development)
}

func TestNewDefaultNeverNil(t *testing.T) {
	logger := NewDefault()
	require.NotNil(t, logger)
	require.NotNil(t, logger.Logger)
}

func TestNewDevelopmentNeverNil(t *testing.T) {
	logger := NewDevelopment()
	require.NotNil(t, logger)
	require.NotNil(t, logger.Logger)
}

func TestEncodingFollowsMode(t *testing.T) {
	assert.Equal(t, "console", encodingFormat(true))
	assert.Equal(t, "json", encodingFormat(false))
}
