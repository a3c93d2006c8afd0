package service

import (
	"context"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/analytics"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/estimator"
)

const (
	HourlyPoints = 24
	MaxHistory   = 90
)

type HistoryEntry struct {
	domain.DailyRecord
	PhActivity string `json:"phActivity"`
}

type HistoryView struct {
	Entries  []HistoryEntry     `json:"entries"`
	Averages analytics.Averages `json:"averages"`
}

type HistoryService struct {
	store  HistoryStore
	window int
}

func NewHistoryService(store HistoryStore, window int) *HistoryService {
	if window <= 0 {
		window = estimator.DefaultWindow
	}
	return &HistoryService{store: store, window: window}
}

// Records returns up to n daily records, newest first. n outside
// 1..MaxHistory falls back to the configured window.
func (s *HistoryService) Records(ctx context.Context, n int) ([]domain.DailyRecord, error) {
	if n <= 0 || n > MaxHistory {
		n = s.window
	}
	return s.store.RecentHistory(ctx, n)
}

func (s *HistoryService) Recent(ctx context.Context, n int) (HistoryView, error) {
	records, err := s.Records(ctx, n)
	if err != nil {
		return HistoryView{}, err
	}
	view := HistoryView{
		Entries:  make([]HistoryEntry, 0, len(records)),
		Averages: analytics.DailyAverages(records),
	}
	for _, rec := range records {
		view.Entries = append(view.Entries, HistoryEntry{DailyRecord: rec, PhActivity: analytics.PhActivity(rec)})
	}
	return view, nil
}

// Hourly returns the last day of hourly points, oldest first.
func (s *HistoryService) Hourly(ctx context.Context) ([]domain.HourlyPoint, error) {
	return s.store.RecentHourly(ctx, HourlyPoints)
}
