package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit allows each client IP the given number of requests per period,
// e.g. "10-M" for ten a minute.
func RateLimit(formatted string) (fiber.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(c *fiber.Ctx) error {
		lc, err := instance.Get(c.UserContext(), c.IP())
		if err != nil {
			return err
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

		if lc.Reached {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many attempts, try again later")
		}
		return c.Next()
	}, nil
}
