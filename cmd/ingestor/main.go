package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/database"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/feed"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/repository"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

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

	ingest := service.NewIngestService(repository.New(db))

	source := feed.NewMQTTSource(config.MQTTBroker(), config.MQTTClientID()+"-ingestor", config.MQTTTopics())
	if err := source.Subscribe(ingest.Listener(ctx)); err != nil {
		log.Fatal().Err(err).Msg("subscribe failed")
	}
	defer source.Close()

	log.Info().Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("ingestor stopped")
}
