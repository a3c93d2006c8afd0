package http

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/cache"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/monitor"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/repository"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/service"
)

// Snapshots is the live source of dashboard snapshots.
type Snapshots interface {
	Latest() (monitor.Snapshot, bool)
}

// SnapshotFallback serves the last known snapshot when the live source has none.
type SnapshotFallback interface {
	Latest(ctx context.Context) (monitor.Snapshot, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, id string) (cache.Decision, error)
}

type Deps struct {
	Services  *service.Services
	Snapshots Snapshots
	// Optional.
	Fallback SnapshotFallback
	Limiter  RateLimiter
}

type handlers struct {
	Deps
	validate *validator.Validate
}

// NewApp builds a fiber app that renders errors, including recovered
// handler panics, as {"error": "..."}.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "aquarium-api",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code == fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
				return c.Status(code).JSON(fiber.Map{"error": "internal error"})
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	return app
}

func Register(app *fiber.App, deps Deps) {
	h := &handlers{Deps: deps, validate: validator.New()}

	app.Use(requestLogger)
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	auth := app.Group("/auth")
	auth.Post("/register", h.registrationGate, h.register)
	auth.Post("/login", h.rateLimit("login:"), h.login)

	op := h.requireOperator
	app.Get("/dashboard", op, h.dashboard)
	app.Get("/history", op, h.history)
	app.Get("/history/hourly", op, h.hourly)
	app.Get("/history/export", op, h.export)
	app.Get("/settings", op, h.getSettings)
	app.Put("/settings/feeding", op, h.setFeeding)
	app.Put("/settings/feeding/schedules/:slot", op, h.setSchedule)
	app.Delete("/settings/feeding/schedules/:slot", op, h.clearSchedule)
	app.Put("/settings/ph-balancer", op, h.setPhBalancer)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// serviceError maps domain and service errors to HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidSlot),
		errors.Is(err, service.ErrInvalidTime),
		errors.Is(err, service.ErrInvalidGrams),
		errors.Is(err, service.ErrDuplicateTime):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFeedingDisabled),
		errors.Is(err, service.ErrEmailTaken):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}
}
