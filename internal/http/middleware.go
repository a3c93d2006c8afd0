package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const localsClaims = "claims"

// requireOperator checks the Bearer token on every protected route.
func (h *handlers) requireOperator(c *fiber.Ctx) error {
	authorization := c.Get(fiber.HeaderAuthorization)
	if authorization == "" {
		return fail(c, fiber.StatusUnauthorized, "Authorization header required")
	}
	parts := strings.SplitN(authorization, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return fail(c, fiber.StatusUnauthorized, "Authorization header format must be Bearer {token}")
	}
	claims, err := h.Services.Auth.Verify(parts[1])
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}
	c.Locals(localsClaims, claims)
	return c.Next()
}

// registrationGate leaves registration public until the first operator
// exists. After that only an operator can add another.
func (h *handlers) registrationGate(c *fiber.Ctx) error {
	open, err := h.Services.Auth.RegistrationOpen(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	if open {
		return c.Next()
	}
	return h.requireOperator(c)
}

// rateLimit caps attempts per client IP. Limiter failures let the request through.
func (h *handlers) rateLimit(prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if h.Limiter == nil {
			return c.Next()
		}
		d, err := h.Limiter.Allow(c.UserContext(), prefix+c.IP())
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
			return c.Next()
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Set("X-RateLimit-Reset", strconv.Itoa(int(d.Reset.Seconds())))
		if !d.Allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":           "rate limit exceeded",
				"retry_after_sec": int(d.Reset.Seconds()),
			})
		}
		return c.Next()
	}
}
