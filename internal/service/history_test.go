package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

func f(v float64) *float64 { return &v }

func seedHistory(store *memStore, days int) {
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		store.history = append(store.history, domain.DailyRecord{
			RecordedAt:   start.AddDate(0, 0, -i),
			Temperature:  f(24 + float64(i%2)),
			PhLevelStart: f(60),
			PhLevelEnd:   f(60 - float64(i%2)),
		})
	}
}

func TestRecentHistory(t *testing.T) {
	store := newMemStore()
	seedHistory(store, 10)
	svc := NewHistoryService(store, 7)

	view, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, view.Entries, 7)
	assert.True(t, view.Entries[0].RecordedAt.After(view.Entries[1].RecordedAt))
	assert.Equal(t, "Not Triggered", view.Entries[0].PhActivity)
	assert.Equal(t, "Triggered", view.Entries[1].PhActivity)

	require.NotNil(t, view.Averages.Temperature)
	assert.InDelta(t, 24+3.0/7, *view.Averages.Temperature, 1e-9)
	assert.Nil(t, view.Averages.PH)
	assert.Equal(t, 7, view.Averages.Days)
}

func TestRecentHistoryLimits(t *testing.T) {
	store := newMemStore()
	seedHistory(store, 10)
	svc := NewHistoryService(store, 7)
	ctx := context.Background()

	view, err := svc.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, view.Entries, 3)

	view, err = svc.Recent(ctx, MaxHistory+1)
	require.NoError(t, err)
	assert.Len(t, view.Entries, 7)
}

func TestRecentHistoryEmpty(t *testing.T) {
	svc := NewHistoryService(newMemStore(), 7)
	view, err := svc.Recent(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, view.Entries)
	assert.Empty(t, view.Entries)
}

func TestHourly(t *testing.T) {
	store := newMemStore()
	start := time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		store.hourly = append(store.hourly, domain.HourlyPoint{RecordedAt: start.Add(time.Duration(i) * time.Hour)})
	}
	svc := NewHistoryService(store, 7)

	points, err := svc.Hourly(context.Background())
	require.NoError(t, err)
	require.Len(t, points, HourlyPoints)
	assert.Equal(t, start.Add(6*time.Hour), points[0].RecordedAt)
}
