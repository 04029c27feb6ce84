package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/UdayIge/User-Management-System/internal/apperr"
)

// Recovery turns a handler panic into an InternalError so it reaches the
// boundary translator like every other failure.
func Recovery(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("panic recovered", "panic", r, "path", c.Path())
				err = apperr.Internal(fmt.Errorf("panic: %v", r))
			}
		}()
		return c.Next()
	}
}
