package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/monitor"
)

const (
	SnapshotKey = "aquarium:snapshot:latest"
	SnapshotTTL = 24 * time.Hour
)

var ErrMiss = errors.New("cache miss")

func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Snapshots keeps the latest dashboard snapshot in Redis so a restarted API
// has something to serve before the next push arrives.
type Snapshots struct {
	rdb *redis.Client
}

func NewSnapshots(rdb *redis.Client) *Snapshots { return &Snapshots{rdb: rdb} }

func (s *Snapshots) Store(ctx context.Context, snap monitor.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, SnapshotKey, b, SnapshotTTL).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (s *Snapshots) Latest(ctx context.Context) (monitor.Snapshot, error) {
	var snap monitor.Snapshot
	b, err := s.rdb.Get(ctx, SnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return snap, ErrMiss
	}
	if err != nil {
		return snap, fmt.Errorf("load snapshot: %w", err)
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Publish implements monitor.Sink. Cache failures are logged, not fatal.
func (s *Snapshots) Publish(ctx context.Context, snap monitor.Snapshot) {
	if err := s.Store(ctx, snap); err != nil {
		log.Warn().Err(err).Msg("snapshot cache update failed")
	}
}
