package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/feed"
)

const ingestTimeout = 5 * time.Second

// IngestService persists every appliance push.
type IngestService struct {
	store IngestStore
}

func NewIngestService(store IngestStore) *IngestService {
	return &IngestService{store: store}
}

// Listener returns feed callbacks that write each push to the store.
func (s *IngestService) Listener(ctx context.Context) feed.Listener {
	return feed.Listener{
		Reading: func(rd domain.SensorReading) {
			s.save(ctx, "reading", func(ctx context.Context) error { return s.store.UpsertReading(ctx, rd) })
		},
		Containers: func(st domain.ContainerStatus) {
			s.save(ctx, "containers", func(ctx context.Context) error { return s.store.UpsertContainers(ctx, st) })
		},
		History: func(rec domain.DailyRecord) {
			s.save(ctx, "history", func(ctx context.Context) error { return s.store.UpsertHistory(ctx, &rec) })
		},
		Hourly: func(p domain.HourlyPoint) {
			s.save(ctx, "hourly", func(ctx context.Context) error { return s.store.UpsertHourly(ctx, p) })
		},
		Triggered: func(t domain.Triggered) {
			s.save(ctx, "triggered", func(ctx context.Context) error { return s.store.UpsertTriggered(ctx, t) })
		},
		Err: func(err error) {
			log.Error().Err(err).Msg("ingest feed error")
		},
	}
}

func (s *IngestService) save(ctx context.Context, kind string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, ingestTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("ingest failed")
		return
	}
	log.Debug().Str("kind", kind).Msg("ingested")
}
