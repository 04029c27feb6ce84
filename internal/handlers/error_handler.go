package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/UdayIge/User-Management-System/internal/apperr"
)

// NewErrorHandler is the single boundary translator: every error that escapes
// a handler is mapped here from the taxonomy to an envelope plus status code.
// Outside development, internal messages are redacted to a generic string.
func NewErrorHandler(dev bool, log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := apperr.As(err); ok {
			switch e.Kind {
			case apperr.KindValidation, apperr.KindUpload, apperr.KindConflict, apperr.KindNotFound:
				return respondError(c, e.StatusCode(), e.Message, e.Fields)
			default:
				log.Errorw("unhandled error", "path", c.Path(), "error", e.Error())
				msg := "Internal Server Error"
				if dev {
					msg = e.Error()
				}
				return respondError(c, fiber.StatusInternalServerError, msg, nil)
			}
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return respondError(c, fe.Code, fe.Message, nil)
		}

		log.Errorw("unhandled error", "path", c.Path(), "error", err.Error())
		msg := "Internal Server Error"
		if dev {
			msg = err.Error()
		}
		return respondError(c, fiber.StatusInternalServerError, msg, nil)
	}
}
