package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) UpsertReading(ctx context.Context, rd domain.SensorReading) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO water_quality_live (id, temperature, turbidity, ph, observed_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			temperature = EXCLUDED.temperature,
			turbidity   = EXCLUDED.turbidity,
			ph          = EXCLUDED.ph,
			observed_at = EXCLUDED.observed_at`,
		rd.Temperature, rd.Turbidity, rd.PH, rd.ObservedAt)
	if err != nil {
		return fmt.Errorf("upsert reading: %w", err)
	}
	return nil
}

func (r *Repos) LatestReading(ctx context.Context) (domain.SensorReading, error) {
	var out domain.SensorReading
	err := r.db.GetContext(ctx, &out, `SELECT temperature, turbidity, ph, observed_at FROM water_quality_live WHERE id = 1`)
	return out, notFound(err, "latest reading")
}

func (r *Repos) UpsertContainers(ctx context.Context, s domain.ContainerStatus) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO container_levels (id, food_level, ph_solution_level, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			food_level        = EXCLUDED.food_level,
			ph_solution_level = EXCLUDED.ph_solution_level,
			updated_at        = EXCLUDED.updated_at`,
		s.FoodLevel, s.PhSolutionLevel, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert containers: %w", err)
	}
	return nil
}

func (r *Repos) Containers(ctx context.Context) (domain.ContainerStatus, error) {
	var out domain.ContainerStatus
	err := r.db.GetContext(ctx, &out, `SELECT food_level, ph_solution_level, updated_at FROM container_levels WHERE id = 1`)
	return out, notFound(err, "containers")
}

// historyRow carries the schedules column, stored as comma separated HH:MM values.
type historyRow struct {
	domain.DailyRecord
	Schedules string `db:"feeding_schedules"`
}

// UpsertHistory stores a daily record. A record for the same day replaces the old one.
func (r *Repos) UpsertHistory(ctx context.Context, rec *domain.DailyRecord) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO water_history (recorded_at, temperature, turbidity, ph,
			food_level_start, food_level_end, ph_level_start, ph_level_end,
			auto_feeding_enabled, auto_ph_enabled, feeding_schedules)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (recorded_at) DO UPDATE SET
			temperature          = EXCLUDED.temperature,
			turbidity            = EXCLUDED.turbidity,
			ph                   = EXCLUDED.ph,
			food_level_start     = EXCLUDED.food_level_start,
			food_level_end       = EXCLUDED.food_level_end,
			ph_level_start       = EXCLUDED.ph_level_start,
			ph_level_end         = EXCLUDED.ph_level_end,
			auto_feeding_enabled = EXCLUDED.auto_feeding_enabled,
			auto_ph_enabled      = EXCLUDED.auto_ph_enabled,
			feeding_schedules    = EXCLUDED.feeding_schedules
		RETURNING id`,
		rec.RecordedAt, rec.Temperature, rec.Turbidity, rec.PH,
		rec.FoodLevelStart, rec.FoodLevelEnd, rec.PhLevelStart, rec.PhLevelEnd,
		rec.AutoFeedingEnabled, rec.AutoPhEnabled, strings.Join(rec.FeedingSchedules, ","),
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}
	return nil
}

// RecentHistory returns up to n daily records, newest first.
func (r *Repos) RecentHistory(ctx context.Context, n int) ([]domain.DailyRecord, error) {
	var rows []historyRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, recorded_at, temperature, turbidity, ph,
			food_level_start, food_level_end, ph_level_start, ph_level_end,
			auto_feeding_enabled, auto_ph_enabled, feeding_schedules
		FROM water_history
		ORDER BY recorded_at DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}
	out := make([]domain.DailyRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.DailyRecord
		rec.FeedingSchedules = splitSchedules(row.Schedules)
		out = append(out, rec)
	}
	return out, nil
}

func splitSchedules(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *Repos) UpsertHourly(ctx context.Context, p domain.HourlyPoint) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hourly_water_quality (recorded_at, temperature, turbidity, ph)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (recorded_at) DO UPDATE SET
			temperature = EXCLUDED.temperature,
			turbidity   = EXCLUDED.turbidity,
			ph          = EXCLUDED.ph`,
		p.RecordedAt, p.Temperature, p.Turbidity, p.PH)
	if err != nil {
		return fmt.Errorf("upsert hourly: %w", err)
	}
	return nil
}

// RecentHourly returns the latest n hourly points in chronological order.
func (r *Repos) RecentHourly(ctx context.Context, n int) ([]domain.HourlyPoint, error) {
	out := []domain.HourlyPoint{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT recorded_at, temperature, turbidity, ph FROM (
			SELECT recorded_at, temperature, turbidity, ph
			FROM hourly_water_quality
			ORDER BY recorded_at DESC
			LIMIT $1
		) h ORDER BY recorded_at ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("recent hourly: %w", err)
	}
	return out, nil
}

type settingsRow struct {
	FeedingEnabled    bool      `db:"feeding_enabled"`
	FeedingTime1      string    `db:"feeding_time_1"`
	FeedingGrams1     int       `db:"feeding_grams_1"`
	FeedingTime2      string    `db:"feeding_time_2"`
	FeedingGrams2     int       `db:"feeding_grams_2"`
	PhBalancerEnabled bool      `db:"ph_balancer_enabled"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// Settings returns the stored automation settings. A missing row yields defaults.
func (r *Repos) Settings(ctx context.Context) (domain.Settings, error) {
	var row settingsRow
	err := r.db.GetContext(ctx, &row, `
		SELECT feeding_enabled, feeding_time_1, feeding_grams_1, feeding_time_2, feeding_grams_2,
			ph_balancer_enabled, updated_at
		FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("settings: %w", err)
	}
	s := domain.NewSettings()
	s.FeedingEnabled = row.FeedingEnabled
	s.Schedules[0].Time, s.Schedules[0].Grams = row.FeedingTime1, row.FeedingGrams1
	s.Schedules[1].Time, s.Schedules[1].Grams = row.FeedingTime2, row.FeedingGrams2
	s.PhBalancerEnabled = row.PhBalancerEnabled
	s.UpdatedAt = row.UpdatedAt
	return s, nil
}

func (r *Repos) SaveSettings(ctx context.Context, s domain.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, feeding_enabled, feeding_time_1, feeding_grams_1,
			feeding_time_2, feeding_grams_2, ph_balancer_enabled, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			feeding_enabled     = EXCLUDED.feeding_enabled,
			feeding_time_1      = EXCLUDED.feeding_time_1,
			feeding_grams_1     = EXCLUDED.feeding_grams_1,
			feeding_time_2      = EXCLUDED.feeding_time_2,
			feeding_grams_2     = EXCLUDED.feeding_grams_2,
			ph_balancer_enabled = EXCLUDED.ph_balancer_enabled,
			updated_at          = EXCLUDED.updated_at`,
		s.FeedingEnabled,
		s.Schedules[0].Time, s.Schedules[0].Grams,
		s.Schedules[1].Time, s.Schedules[1].Grams,
		s.PhBalancerEnabled, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// UpsertTriggered stores trigger times. Nil fields keep the previous value.
func (r *Repos) UpsertTriggered(ctx context.Context, t domain.Triggered) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings_triggered (id, feeding_last_triggered, ph_last_triggered)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			feeding_last_triggered = COALESCE(EXCLUDED.feeding_last_triggered, settings_triggered.feeding_last_triggered),
			ph_last_triggered      = COALESCE(EXCLUDED.ph_last_triggered, settings_triggered.ph_last_triggered)`,
		t.FeedingLastTriggered, t.PhLastTriggered)
	if err != nil {
		return fmt.Errorf("upsert triggered: %w", err)
	}
	return nil
}

func (r *Repos) Triggered(ctx context.Context) (domain.Triggered, error) {
	var out domain.Triggered
	err := r.db.GetContext(ctx, &out, `SELECT feeding_last_triggered, ph_last_triggered FROM settings_triggered WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Triggered{}, nil
	}
	if err != nil {
		return out, fmt.Errorf("triggered: %w", err)
	}
	return out, nil
}

func (r *Repos) CreateOperator(ctx context.Context, op *domain.Operator) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO operators (email, password_hash) VALUES ($1, $2)
		RETURNING id, created_at`, op.Email, op.PasswordHash,
	).Scan(&op.ID, &op.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create operator: %w", err)
	}
	return nil
}

func (r *Repos) OperatorByEmail(ctx context.Context, email string) (domain.Operator, error) {
	var out domain.Operator
	err := r.db.GetContext(ctx, &out, `SELECT id, email, password_hash, created_at FROM operators WHERE email = $1`, email)
	return out, notFound(err, "operator")
}

func (r *Repos) CountOperators(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM operators`); err != nil {
		return 0, fmt.Errorf("count operators: %w", err)
	}
	return n, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
