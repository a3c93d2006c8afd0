package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestDailyAverages(t *testing.T) {
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	records := []domain.DailyRecord{
		{RecordedAt: day, Temperature: f(24), Turbidity: f(4), PH: f(7)},
		{RecordedAt: day.AddDate(0, 0, -1), Temperature: f(26), PH: f(7.4)},
		{RecordedAt: day.AddDate(0, 0, -2), Turbidity: f(6)},
	}

	got := DailyAverages(records)
	require.NotNil(t, got.Temperature)
	require.NotNil(t, got.Turbidity)
	require.NotNil(t, got.PH)
	assert.InDelta(t, 25.0, *got.Temperature, 1e-9)
	assert.InDelta(t, 5.0, *got.Turbidity, 1e-9)
	assert.InDelta(t, 7.2, *got.PH, 1e-9)
	assert.Equal(t, 3, got.Days)
}

func TestDailyAveragesEmpty(t *testing.T) {
	got := DailyAverages(nil)
	assert.Nil(t, got.Temperature)
	assert.Nil(t, got.Turbidity)
	assert.Nil(t, got.PH)
	assert.Zero(t, got.Days)
}

func TestPhActivity(t *testing.T) {
	assert.Equal(t, "Triggered", PhActivity(domain.DailyRecord{PhLevelStart: f(60), PhLevelEnd: f(55)}))
	assert.Equal(t, "Not Triggered", PhActivity(domain.DailyRecord{PhLevelStart: f(60), PhLevelEnd: f(60)}))
	assert.Equal(t, "Not Triggered", PhActivity(domain.DailyRecord{PhLevelStart: f(20), PhLevelEnd: f(90)}))
	assert.Equal(t, "N/A", PhActivity(domain.DailyRecord{PhLevelStart: f(60)}))
}

func TestLevelBand(t *testing.T) {
	assert.Equal(t, "high", LevelBand(100))
	assert.Equal(t, "high", LevelBand(50.5))
	assert.Equal(t, "medium", LevelBand(50))
	assert.Equal(t, "medium", LevelBand(21))
	assert.Equal(t, "low", LevelBand(20))
	assert.Equal(t, "low", LevelBand(0))
}
