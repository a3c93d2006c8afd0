package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/cache"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/cloud"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/database"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/feed"
	httpHandlers "github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/http"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/live"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/monitor"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/notify"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/repository"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())
	if err := config.CheckSecrets(); err != nil {
		log.Fatal().Err(err).Msg("refusing to start")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	mqttClient, err := feed.Dial(config.MQTTBroker(), config.MQTTClientID()+"-api", nil)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer mqttClient.Disconnect(250)
	publisher := feed.NewPublisher(mqttClient, config.MQTTTopics().Settings)

	var (
		uploader service.ReportUploader
		alerter  notify.Alerter = notify.LogAlerter{}
	)
	if config.UseCloudServices() {
		s3Client, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client")
		}
		uploader = s3Client
		if arn := config.SNSTopicArn(); arn != "" {
			snsClient, err := cloud.NewSNSClient(ctx, config.AWSRegion(), arn)
			if err != nil {
				log.Fatal().Err(err).Msg("sns client")
			}
			alerter = snsClient
		}
	}

	svcs := service.New(db, publisher, uploader)
	if err := svcs.Settings.Republish(ctx); err != nil {
		log.Warn().Err(err).Msg("initial settings publish failed")
	}

	var mon *monitor.Monitor
	hub := live.NewHub(func() (monitor.Snapshot, bool) { return mon.Latest() })
	sinks := []monitor.Sink{hub, notify.New(alerter, config.LowSupplyDays())}
	deps := httpHandlers.Deps{Services: svcs}

	if rdb, err := cache.Connect(ctx, config.RedisAddr()); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without snapshot cache and rate limiting")
	} else {
		defer rdb.Close()
		snapshots := cache.NewSnapshots(rdb)
		sinks = append(sinks, snapshots)
		deps.Fallback = snapshots
		deps.Limiter = cache.NewLimiter(rdb, config.LoginRateLimit(), config.LoginRateWindow(), "rl:")
	}

	mon = monitor.New(monitor.Config{
		Ranges:    config.Ranges(),
		Window:    config.HistoryWindow(),
		Freshness: config.FreshnessWindow(),
		Recheck:   config.FreshnessRecheckInterval(),
	}, sinks)
	deps.Snapshots = mon
	seed(ctx, mon, svcs.Repos)

	source := feed.NewMQTTSource(config.MQTTBroker(), config.MQTTClientID()+"-monitor", config.MQTTTopics())
	if err := source.Subscribe(mon.Listener(ctx)); err != nil {
		log.Fatal().Err(err).Msg("subscribe failed")
	}
	defer source.Close()

	go hub.Run(ctx)
	go func() {
		if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("freshness recheck stopped")
		}
	}()

	wsServer := &http.Server{Addr: config.WSAddr(), Handler: hub, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", wsServer.Addr).Msg("live hub listening")
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("live hub exit")
		}
	}()

	app := httpHandlers.NewApp()
	httpHandlers.Register(app, deps)

	go shutdown(ctx, app, wsServer)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
	log.Info().Msg("shutdown complete")
}

func shutdown(ctx context.Context, app *fiber.App, wsServer *http.Server) {
	<-ctx.Done()
	log.Info().Msg("received termination signal, shutting down")

	timeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := wsServer.Shutdown(timeout); err != nil {
		log.Warn().Err(err).Msg("live hub shutdown")
	}
	if err := app.ShutdownWithContext(timeout); err != nil {
		log.Warn().Err(err).Msg("api shutdown")
	}
}

// seed primes the monitor with persisted state so the dashboard has data
// before the appliance pushes again.
func seed(ctx context.Context, mon *monitor.Monitor, repos *repository.Repos) {
	var (
		reading    *domain.SensorReading
		containers *domain.ContainerStatus
	)
	if rd, err := repos.LatestReading(ctx); err == nil {
		reading = &rd
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Warn().Err(err).Msg("seed reading")
	}
	if st, err := repos.Containers(ctx); err == nil {
		containers = &st
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Warn().Err(err).Msg("seed containers")
	}
	history, err := repos.RecentHistory(ctx, config.HistoryWindow())
	if err != nil {
		log.Warn().Err(err).Msg("seed history")
	}
	snap := mon.Seed(ctx, reading, containers, history)
	log.Info().Bool("online", snap.Online).Str("status", snap.Safety.Message).Int("history", len(history)).Msg("monitor seeded")
}
