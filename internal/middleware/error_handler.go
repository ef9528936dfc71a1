package middleware

import (
	"errors"

	"github.com/Nogthings/befosa-software/internal/apierror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every failure as {"error": "..."}. Errors that are
// neither *apierror.Error nor *fiber.Error are logged and hidden behind a
// generic 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.Status).JSON(apiErr.Body())
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(apierror.Body{Error: fe.Message})
		}

		log.Error("unexpected error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", RequestID(c)),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(apierror.Body{Error: "An error occurred."})
	}
}
