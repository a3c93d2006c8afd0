package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool        { return &v }

func TestRow(t *testing.T) {
	rec := domain.DailyRecord{
		RecordedAt:         time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Temperature:        f(24.5),
		PH:                 f(7),
		FoodLevelStart:     f(80),
		FoodLevelEnd:       f(72.5),
		PhLevelStart:       f(60),
		PhLevelEnd:         f(55),
		AutoFeedingEnabled: b(true),
		AutoPhEnabled:      b(false),
		FeedingSchedules:   []string{"08:00 AM", "06:00 PM"},
	}

	assert.Equal(t, []string{
		"May 10, 2026", "24.5", "N/A", "7",
		"Enabled", "08:00 AM, 06:00 PM", "Disabled", "Triggered",
		"80", "72.5", "60", "55",
	}, Row(rec))
}

func TestRowMissingValues(t *testing.T) {
	row := Row(domain.DailyRecord{RecordedAt: time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)})
	require.Len(t, row, len(Columns))
	assert.Equal(t, "No automated feeding", row[5])
	for _, i := range []int{1, 2, 3, 4, 6, 7, 8, 9, 10, 11} {
		assert.Equal(t, "N/A", row[i], Columns[i])
	}
}

func TestDailyLogs(t *testing.T) {
	var records []domain.DailyRecord
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		records = append(records, domain.DailyRecord{
			RecordedAt:       start.AddDate(0, 0, -i),
			Temperature:      f(25),
			FeedingSchedules: []string{"08:00 AM", "12:00 PM", "06:00 PM"},
		})
	}

	out, err := DailyLogs(records, start)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, render(records, start).PageCount(), 1)
}

func TestDailyLogsSingleRecord(t *testing.T) {
	rec := domain.DailyRecord{RecordedAt: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), Temperature: f(25.5)}

	out, err := DailyLogs([]domain.DailyRecord{rec}, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 1, render([]domain.DailyRecord{rec}, time.Now()).PageCount())
}

func TestDailyLogsNonLatinLabels(t *testing.T) {
	rec := domain.DailyRecord{
		RecordedAt:       time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		FeedingSchedules: []string{"朝 🐟", "08:00 AM"},
	}

	out, err := DailyLogs([]domain.DailyRecord{rec}, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, "Temperature (°C)", latin1("Temperature (°C)"))
	assert.Equal(t, "? feed", latin1("🐟 feed"))
}

func TestDailyLogsEmpty(t *testing.T) {
	out, err := DailyLogs(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 1, render(nil, time.Now()).PageCount())
}
