package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/repository"
)

var (
	ErrInvalidSlot        = errors.New("schedule slot must be 1 or 2")
	ErrInvalidTime        = errors.New("please enter a valid time (HH:MM)")
	ErrInvalidGrams       = errors.New("grams must be between 1 and 500")
	ErrDuplicateTime      = errors.New("schedules cannot have the same time")
	ErrFeedingDisabled    = errors.New("automated feeding is disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type SettingsStore interface {
	Settings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, s domain.Settings) error
	Triggered(ctx context.Context) (domain.Triggered, error)
}

// SettingsPublisher forwards settings to the appliance.
type SettingsPublisher interface {
	PublishSettings(ctx context.Context, s domain.Settings) error
}

type HistoryStore interface {
	RecentHistory(ctx context.Context, n int) ([]domain.DailyRecord, error)
	RecentHourly(ctx context.Context, n int) ([]domain.HourlyPoint, error)
}

type OperatorStore interface {
	CreateOperator(ctx context.Context, op *domain.Operator) error
	OperatorByEmail(ctx context.Context, email string) (domain.Operator, error)
	CountOperators(ctx context.Context) (int, error)
}

// ReportUploader stores a rendered report and returns a download URL.
type ReportUploader interface {
	UploadReport(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type IngestStore interface {
	UpsertReading(ctx context.Context, rd domain.SensorReading) error
	UpsertContainers(ctx context.Context, s domain.ContainerStatus) error
	UpsertHistory(ctx context.Context, rec *domain.DailyRecord) error
	UpsertHourly(ctx context.Context, p domain.HourlyPoint) error
	UpsertTriggered(ctx context.Context, t domain.Triggered) error
}

type Services struct {
	Repos    *repository.Repos
	Settings *SettingsService
	History  *HistoryService
	Export   *ExportService
	Auth     *AuthService
	Ingest   *IngestService
}

// New wires the services on top of Postgres. uploader may be nil when cloud
// services are disabled.
func New(db *sqlx.DB, pub SettingsPublisher, uploader ReportUploader) *Services {
	repos := repository.New(db)
	history := NewHistoryService(repos, config.HistoryWindow())
	return &Services{
		Repos:    repos,
		Settings: NewSettingsService(repos, pub),
		History:  history,
		Export:   NewExportService(history, uploader),
		Auth:     NewAuthService(repos, config.JWTSecret(), config.JWTTTL()),
		Ingest:   NewIngestService(repos),
	}
}

type clock func() time.Time
