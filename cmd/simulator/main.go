package main

import (
	"context"
	"math"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/feed"
)

// tank is the simulated appliance state.
type tank struct {
	food, phSolution float64
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := feed.Dial(config.MQTTBroker(), config.MQTTClientID()+"-simulator", nil)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	pub := feed.NewPublisher(client, config.MQTTTopics().Settings)
	topics := config.MQTTTopics()
	t := &tank{food: 85, phSolution: 70}

	for i := 7; i >= 1; i-- {
		day := truncateDay(time.Now()).AddDate(0, 0, -i)
		publish(ctx, pub, topics.History, feed.EncodeHistory, t.day(day))
	}

	ticker := time.NewTicker(config.SimulatorInterval())
	defer ticker.Stop()
	for n := 0; config.SimulatorCount() == 0 || n < config.SimulatorCount(); n++ {
		now := time.Now()
		publish(ctx, pub, topics.Live, feed.EncodeReading, reading(now))
		publish(ctx, pub, topics.Containers, feed.EncodeContainers, domain.ContainerStatus{
			FoodLevel:       t.food,
			PhSolutionLevel: t.phSolution,
			UpdatedAt:       now,
		})
		r := reading(now)
		publish(ctx, pub, topics.Hourly, feed.EncodeHourly, domain.HourlyPoint{
			RecordedAt:  now.Truncate(time.Hour),
			Temperature: r.Temperature,
			Turbidity:   r.Turbidity,
			PH:          r.PH,
		})

		select {
		case <-ctx.Done():
			log.Info().Msg("simulation stopped")
			return
		case <-ticker.C:
		}
	}
	log.Info().Msg("simulation done")
}

func publish[T any](ctx context.Context, pub *feed.Publisher, topic string, encode func(T) ([]byte, error), v T) {
	payload, err := encode(v)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("encode")
		return
	}
	if err := pub.Publish(ctx, topic, payload, false); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("publish")
	}
}

// reading mostly stays inside the safe bands with an occasional excursion.
func reading(now time.Time) domain.SensorReading {
	temp := round1(25 + rand.NormFloat64()*1.2)
	turbidity := round1(math.Abs(4 + rand.NormFloat64()*2.5))
	ph := round1(7 + rand.NormFloat64()*0.25)
	return domain.SensorReading{Temperature: &temp, Turbidity: &turbidity, PH: &ph, ObservedAt: &now}
}

// day simulates one day of consumption and returns its history record.
func (t *tank) day(at time.Time) domain.DailyRecord {
	foodStart, phStart := t.food, t.phSolution
	t.food = math.Max(0, t.food-(4+rand.Float64()*4))
	phTriggered := rand.Float64() < 0.4
	if phTriggered {
		t.phSolution = math.Max(0, t.phSolution-(2+rand.Float64()*3))
	}
	r := reading(at)
	feeding, auto := true, true
	return domain.DailyRecord{
		RecordedAt:         at,
		Temperature:        r.Temperature,
		Turbidity:          r.Turbidity,
		PH:                 r.PH,
		FoodLevelStart:     ptr(round1(foodStart)),
		FoodLevelEnd:       ptr(round1(t.food)),
		PhLevelStart:       ptr(round1(phStart)),
		PhLevelEnd:         ptr(round1(t.phSolution)),
		AutoFeedingEnabled: &feeding,
		AutoPhEnabled:      &auto,
		FeedingSchedules:   []string{"08:00 AM", "06:00 PM"},
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func ptr(v float64) *float64 { return &v }
