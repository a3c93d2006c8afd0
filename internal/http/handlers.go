package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/report"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type scheduleRequest struct {
	Time  string `json:"time" validate:"required"`
	Grams int    `json:"grams" validate:"required,min=1,max=500"`
}

// bind decodes the JSON body into req and validates it. The returned
// *fiber.Error is rendered by the app error handler.
func (h *handlers) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func (h *handlers) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	op, err := h.Services.Auth.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(op)
}

func (h *handlers) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	tok, err := h.Services.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tok)
}

func (h *handlers) dashboard(c *fiber.Ctx) error {
	if snap, ok := h.Snapshots.Latest(); ok {
		return c.JSON(snap)
	}
	if h.Fallback != nil {
		if snap, err := h.Fallback.Latest(c.UserContext()); err == nil {
			return c.JSON(snap)
		}
	}
	return fail(c, fiber.StatusServiceUnavailable, "no data received yet")
}

func (h *handlers) history(c *fiber.Ctx) error {
	view, err := h.Services.History.Recent(c.UserContext(), c.QueryInt("days"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(view)
}

func (h *handlers) hourly(c *fiber.Ctx) error {
	points, err := h.Services.History.Hourly(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(points)
}

func (h *handlers) export(c *fiber.Ctx) error {
	out, err := h.Services.Export.DailyLogs(c.UserContext(), c.QueryInt("days"))
	if err != nil {
		return serviceError(c, err)
	}
	if out.URL != "" {
		return c.JSON(fiber.Map{"report_url": out.URL})
	}
	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Attachment(report.FileName)
	return c.Send(out.PDF)
}

func (h *handlers) getSettings(c *fiber.Ctx) error {
	st, err := h.Services.Settings.Get(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(st)
}

func (h *handlers) setFeeding(c *fiber.Ctx) error {
	var req toggleRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	st, err := h.Services.Settings.SetFeeding(c.UserContext(), *req.Enabled)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(st)
}

func (h *handlers) setSchedule(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid slot")
	}
	var req scheduleRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	st, err := h.Services.Settings.SetSchedule(c.UserContext(), slot, req.Time, req.Grams)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(st)
}

func (h *handlers) clearSchedule(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid slot")
	}
	st, err := h.Services.Settings.ClearSchedule(c.UserContext(), slot)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(st)
}

func (h *handlers) setPhBalancer(c *fiber.Ctx) error {
	var req toggleRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	st, err := h.Services.Settings.SetPhBalancer(c.UserContext(), *req.Enabled)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(st)
}
