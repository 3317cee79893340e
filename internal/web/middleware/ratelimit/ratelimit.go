// Package ratelimit throttles public write endpoints per client IP.
package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Config for New.
type Config struct {
	// Limit is the number of requests allowed per Period, 0 disables the limiter.
	Limit  int64
	Period time.Duration
	// Prefix separates counters of different endpoints in the store.
	Prefix string
	// Message is returned with 429 responses.
	Message string
}

// New returns a middleware limiting requests per client IP.
func New(cfg Config) fiber.Handler {
	if cfg.Limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	if cfg.Period <= 0 {
		cfg.Period = time.Hour
	}

	if cfg.Message == "" {
		cfg.Message = "Too many requests, please try again later."
	}

	instance := limiter.New(
		memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: cfg.Prefix, CleanUpInterval: cfg.Period}),
		limiter.Rate{Period: cfg.Period, Limit: cfg.Limit},
	)

	return func(c *fiber.Ctx) error {
		res, err := instance.Get(c.UserContext(), c.IP())
		if err != nil {
			log.Error().Err(err).Msg("rate limiter unavailable, letting request through")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset, 10))

		if res.Reached {
			return fiber.NewError(fiber.StatusTooManyRequests, cfg.Message)
		}

		return c.Next()
	}
}
