package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/repository"
)

type memStore struct {
	mu        sync.Mutex
	settings  *domain.Settings
	triggered domain.Triggered
	history   []domain.DailyRecord
	hourly    []domain.HourlyPoint
	operators map[string]domain.Operator
	readings  []domain.SensorReading
	err       error
}

func newMemStore() *memStore {
	return &memStore{operators: map[string]domain.Operator{}}
}

func (m *memStore) Settings(context.Context) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.Settings{}, m.err
	}
	if m.settings == nil {
		return domain.NewSettings(), nil
	}
	return *m.settings, nil
}

func (m *memStore) SaveSettings(_ context.Context, s domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

func (m *memStore) Triggered(context.Context) (domain.Triggered, error) {
	return m.triggered, nil
}

func (m *memStore) RecentHistory(_ context.Context, n int) ([]domain.DailyRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := append([]domain.DailyRecord(nil), m.history...)
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *memStore) RecentHourly(_ context.Context, n int) ([]domain.HourlyPoint, error) {
	out := m.hourly
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (m *memStore) CreateOperator(_ context.Context, op *domain.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.operators[op.Email]; ok {
		return repository.ErrDuplicate
	}
	op.ID = int64(len(m.operators) + 1)
	m.operators[op.Email] = *op
	return nil
}

func (m *memStore) CountOperators(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.operators), nil
}

func (m *memStore) OperatorByEmail(_ context.Context, email string) (domain.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[email]
	if !ok {
		return domain.Operator{}, repository.ErrNotFound
	}
	return op, nil
}

func (m *memStore) UpsertReading(_ context.Context, rd domain.SensorReading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.readings = append(m.readings, rd)
	return nil
}

func (m *memStore) UpsertContainers(context.Context, domain.ContainerStatus) error { return m.err }

func (m *memStore) UpsertHistory(_ context.Context, rec *domain.DailyRecord) error {
	m.history = append(m.history, *rec)
	return nil
}

func (m *memStore) UpsertHourly(_ context.Context, p domain.HourlyPoint) error {
	m.hourly = append(m.hourly, p)
	return nil
}

func (m *memStore) UpsertTriggered(_ context.Context, t domain.Triggered) error {
	m.triggered = t
	return nil
}

type memPublisher struct {
	published []domain.Settings
	err       error
}

func (p *memPublisher) PublishSettings(_ context.Context, s domain.Settings) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, s)
	return nil
}

type memUploader struct {
	keys []string
	err  error
}

func (u *memUploader) UploadReport(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.keys = append(u.keys, key)
	return "https://reports.example/" + key, nil
}

var errStore = errors.New("store down")
