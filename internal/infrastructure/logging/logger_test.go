package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewBuildsLogger(t *testing.T) {
	logger, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.NotNil(t, logger.Logger)
	assert.False(t, logger.Core().Enabled(-1))
}

func TestPresets(t *testing.T) {
	prod := DefaultConfig()
	assert.Equal(t, "info", prod.Level)
	assert.False(t, prod.Development)

	dev := DevelopmentConfig()
	assert.Equal(t, "debug", dev.Level)
	assert.True(t, dev.Development)

	for _, cfg := range []Config{prod, dev} {
		cfg.OutputPaths = []string{"stderr"}
		logger, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, logger.Logger)
	}
}

func TestNopNamed(t *testing.T) {
	assert.NotNil(t, NewNop().Named("shell").Logger)
}
