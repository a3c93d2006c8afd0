package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, 7, HistoryWindow())
	assert.Equal(t, 5*time.Minute, FreshnessWindow())
	assert.Zero(t, FreshnessRecheckInterval())
	assert.Equal(t, domain.DefaultRanges, Ranges())
	assert.Equal(t, "aquarium/water-quality/live", MQTTTopics().Live)
	assert.Equal(t, 24*time.Hour, JWTTTL())
	assert.Equal(t, 5*time.Second, SimulatorInterval())
	assert.Zero(t, SimulatorCount())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RANGE_TEMP_MIN", "20")
	t.Setenv("HISTORY_WINDOW", "14")
	t.Setenv("LOG_LEVEL", "debug")
	require.NoError(t, Load())

	assert.Equal(t, 20.0, Ranges().Temperature.Min)
	assert.Equal(t, 14, HistoryWindow())
	assert.Equal(t, zerolog.DebugLevel, LogLevel())
}

func TestCheckSecrets(t *testing.T) {
	require.NoError(t, Load())
	assert.ErrorIs(t, CheckSecrets(), ErrDefaultJWTSecret)

	t.Setenv("JWT_SECRET", "")
	require.NoError(t, Load())
	assert.ErrorIs(t, CheckSecrets(), ErrDefaultJWTSecret)

	t.Setenv("JWT_SECRET", "3f9c1e7a")
	require.NoError(t, Load())
	assert.NoError(t, CheckSecrets())
}

func TestLogLevelFallback(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	require.NoError(t, Load())
	assert.Equal(t, zerolog.InfoLevel, LogLevel())
}
