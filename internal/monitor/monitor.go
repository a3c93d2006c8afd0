package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/analytics"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/estimator"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/feed"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/safety"
)

// Snapshot is everything the dashboard shows, derived from the latest pushes.
type Snapshot struct {
	Reading    domain.SensorReading    `json:"reading"`
	Containers *domain.ContainerStatus `json:"containers"`
	Estimates  estimator.Estimates     `json:"estimates"`
	Safety     safety.Result           `json:"safety"`
	Online     bool                    `json:"online"`
	FoodBand   string                  `json:"foodBand,omitempty"`
	PhBand     string                  `json:"phBand,omitempty"`
	ComputedAt time.Time               `json:"computedAt"`
}

// Sink receives every recomputed snapshot.
type Sink interface {
	Publish(ctx context.Context, s Snapshot)
}

type SinkFunc func(ctx context.Context, s Snapshot)

func (f SinkFunc) Publish(ctx context.Context, s Snapshot) { f(ctx, s) }

type Config struct {
	Ranges domain.Ranges
	// Window is the number of most recent daily records used for estimates.
	Window    int
	Freshness time.Duration
	// Recheck re-evaluates freshness periodically when positive.
	Recheck time.Duration
}

type Option func(*Monitor)

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// Monitor keeps the latest pushed values and recomputes a Snapshot whenever
// one of them changes.
type Monitor struct {
	cfg   Config
	now   func() time.Time
	sinks []Sink

	mu         sync.Mutex
	reading    domain.SensorReading
	containers *domain.ContainerStatus
	history    []domain.DailyRecord
	latest     *Snapshot
	seq        uint64

	pubMu     sync.Mutex
	published uint64
}

func New(cfg Config, sinks []Sink, opts ...Option) *Monitor {
	if cfg.Window <= 0 {
		cfg.Window = estimator.DefaultWindow
	}
	if cfg.Freshness <= 0 {
		cfg.Freshness = safety.DefaultFreshnessWindow
	}
	m := &Monitor{cfg: cfg, now: time.Now, sinks: sinks}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed loads persisted state, typically at startup, and publishes a first snapshot.
func (m *Monitor) Seed(ctx context.Context, reading *domain.SensorReading, containers *domain.ContainerStatus, history []domain.DailyRecord) Snapshot {
	return m.update(ctx, func() {
		if reading != nil {
			m.reading = *reading
		}
		if containers != nil {
			c := *containers
			m.containers = &c
		}
		m.history = nil
		for _, rec := range history {
			m.addHistory(rec)
		}
	})
}

func (m *Monitor) OnReading(ctx context.Context, r domain.SensorReading) Snapshot {
	return m.update(ctx, func() { m.reading = r })
}

func (m *Monitor) OnContainers(ctx context.Context, s domain.ContainerStatus) Snapshot {
	return m.update(ctx, func() { m.containers = &s })
}

func (m *Monitor) OnHistory(ctx context.Context, rec domain.DailyRecord) Snapshot {
	return m.update(ctx, func() { m.addHistory(rec) })
}

// Refresh recomputes without new data so freshness is re-evaluated.
func (m *Monitor) Refresh(ctx context.Context) Snapshot {
	return m.update(ctx, func() {})
}

// Listener adapts the monitor to a feed subscription.
func (m *Monitor) Listener(ctx context.Context) feed.Listener {
	return feed.Listener{
		Reading:    func(r domain.SensorReading) { m.OnReading(ctx, r) },
		Containers: func(s domain.ContainerStatus) { m.OnContainers(ctx, s) },
		History:    func(rec domain.DailyRecord) { m.OnHistory(ctx, rec) },
		Err: func(err error) {
			log.Warn().Err(err).Msg("monitor feed error")
		},
	}
}

// Latest returns the most recent snapshot, if any has been computed.
func (m *Monitor) Latest() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == nil {
		return Snapshot{}, false
	}
	return *m.latest, true
}

// History returns a copy of the rolling window, newest first.
func (m *Monitor) History() []domain.DailyRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.DailyRecord(nil), m.history...)
}

// Run re-evaluates freshness on the configured interval until ctx is done.
// It returns immediately when rechecking is disabled.
func (m *Monitor) Run(ctx context.Context) error {
	if m.cfg.Recheck <= 0 {
		return nil
	}
	ticker := time.NewTicker(m.cfg.Recheck)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			prev, ok := m.Latest()
			next := m.Refresh(ctx)
			if ok && prev.Online != next.Online {
				log.Info().Bool("online", next.Online).Msg("appliance connectivity changed")
			}
		}
	}
}

func (m *Monitor) update(ctx context.Context, apply func()) Snapshot {
	m.mu.Lock()
	apply()
	snap := m.compute()
	m.latest = &snap
	m.seq++
	seq := m.seq
	m.mu.Unlock()

	m.publish(ctx, seq, snap)
	return snap
}

// publish fans out in order; a snapshot older than one already published is dropped.
func (m *Monitor) publish(ctx context.Context, seq uint64, snap Snapshot) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()
	if seq <= m.published {
		return
	}
	m.published = seq
	for _, s := range m.sinks {
		s.Publish(ctx, snap)
	}
}

func (m *Monitor) compute() Snapshot {
	now := m.now()
	online := safety.IsOnline(m.reading.ObservedAt, now, m.cfg.Freshness)
	snap := Snapshot{
		Reading:    m.reading,
		Safety:     safety.Evaluate(m.reading, m.cfg.Ranges, online),
		Online:     online,
		ComputedAt: now,
	}
	// An unreported level counts as empty for the estimate.
	var levels domain.ContainerStatus
	if m.containers != nil {
		levels = m.containers.Clamped()
		snap.Containers = &levels
		snap.FoodBand = analytics.LevelBand(levels.FoodLevel)
		snap.PhBand = analytics.LevelBand(levels.PhSolutionLevel)
	}
	snap.Estimates = estimator.Estimate(levels, m.history, m.cfg.Window)
	return snap
}

// addHistory inserts rec keeping the window sorted newest first and bounded.
// A record for an already known day replaces it.
func (m *Monitor) addHistory(rec domain.DailyRecord) {
	for i := range m.history {
		if m.history[i].RecordedAt.Equal(rec.RecordedAt) {
			m.history[i] = rec
			return
		}
	}
	m.history = append(m.history, rec)
	sort.SliceStable(m.history, func(i, j int) bool {
		return m.history[i].RecordedAt.After(m.history[j].RecordedAt)
	})
	if len(m.history) > m.cfg.Window {
		m.history = m.history[:m.cfg.Window]
	}
}
