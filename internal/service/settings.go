package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

var timeOfDay = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

const (
	MinGrams = 1
	MaxGrams = 500
)

// SettingsStatus is the stored settings together with the last automation runs.
type SettingsStatus struct {
	domain.Settings
	Triggered domain.Triggered `json:"triggered"`
}

type SettingsService struct {
	store SettingsStore
	pub   SettingsPublisher
	now   clock

	mu sync.Mutex
}

func NewSettingsService(store SettingsStore, pub SettingsPublisher) *SettingsService {
	return &SettingsService{store: store, pub: pub, now: time.Now}
}

func (s *SettingsService) Get(ctx context.Context) (SettingsStatus, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return SettingsStatus{}, err
	}
	triggered, err := s.store.Triggered(ctx)
	if err != nil {
		return SettingsStatus{}, err
	}
	return SettingsStatus{Settings: settings, Triggered: triggered}, nil
}

// SetFeeding toggles automated feeding. Disabling also clears both schedules.
func (s *SettingsService) SetFeeding(ctx context.Context, enabled bool) (domain.Settings, error) {
	return s.mutate(ctx, func(st *domain.Settings) error {
		st.FeedingEnabled = enabled
		if !enabled {
			for i := range st.Schedules {
				st.Schedules[i] = domain.FeedingSchedule{Slot: i + 1}
			}
		}
		return nil
	})
}

// SetSchedule stores a feeding time and portion for a slot. The time is
// normalized to zero padded HH:MM.
func (s *SettingsService) SetSchedule(ctx context.Context, slot int, at string, grams int) (domain.Settings, error) {
	if err := validSlot(slot); err != nil {
		return domain.Settings{}, err
	}
	normalized, err := NormalizeTime(at)
	if err != nil {
		return domain.Settings{}, err
	}
	if grams < MinGrams || grams > MaxGrams {
		return domain.Settings{}, ErrInvalidGrams
	}
	return s.mutate(ctx, func(st *domain.Settings) error {
		if !st.FeedingEnabled {
			return ErrFeedingDisabled
		}
		for _, other := range st.Schedules {
			if other.Slot != slot && other.Set() && other.Time == normalized {
				return ErrDuplicateTime
			}
		}
		st.Schedules[slot-1] = domain.FeedingSchedule{Slot: slot, Time: normalized, Grams: grams}
		return nil
	})
}

func (s *SettingsService) ClearSchedule(ctx context.Context, slot int) (domain.Settings, error) {
	if err := validSlot(slot); err != nil {
		return domain.Settings{}, err
	}
	return s.mutate(ctx, func(st *domain.Settings) error {
		st.Schedules[slot-1] = domain.FeedingSchedule{Slot: slot}
		return nil
	})
}

func (s *SettingsService) SetPhBalancer(ctx context.Context, enabled bool) (domain.Settings, error) {
	return s.mutate(ctx, func(st *domain.Settings) error {
		st.PhBalancerEnabled = enabled
		return nil
	})
}

// Republish sends the stored settings to the appliance, e.g. after a restart.
func (s *SettingsService) Republish(ctx context.Context) error {
	st, err := s.store.Settings(ctx)
	if err != nil {
		return err
	}
	return s.pub.PublishSettings(ctx, st)
}

func (s *SettingsService) mutate(ctx context.Context, apply func(*domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.Settings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := apply(&st); err != nil {
		return domain.Settings{}, err
	}
	st.UpdatedAt = s.now()
	if err := s.store.SaveSettings(ctx, st); err != nil {
		return domain.Settings{}, err
	}
	// The stored row is authoritative; the appliance gets it on the next publish.
	if err := s.pub.PublishSettings(ctx, st); err != nil {
		log.Warn().Err(err).Msg("settings saved but not delivered to appliance")
	}
	return st, nil
}

func validSlot(slot int) error {
	if slot < 1 || slot > domain.ScheduleSlots {
		return ErrInvalidSlot
	}
	return nil
}

// NormalizeTime validates a 24 hour H:MM or HH:MM time and zero pads it.
func NormalizeTime(at string) (string, error) {
	at = strings.TrimSpace(at)
	if !timeOfDay.MatchString(at) {
		return "", ErrInvalidTime
	}
	hh, mm, _ := strings.Cut(at, ":")
	h, err := strconv.Atoi(hh)
	if err != nil {
		return "", ErrInvalidTime
	}
	return fmt.Sprintf("%02d:%s", h, mm), nil
}
