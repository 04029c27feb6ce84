package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/UdayIge/User-Management-System/internal/apperr"
	"github.com/UdayIge/User-Management-System/internal/models"
)

// Every handler outcome is shaped into exactly one of these two envelopes
// before it crosses the transport boundary.

type successEnvelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       interface{}        `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors"`
}

func respondSuccess(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(successEnvelope{Success: true, Message: message, Data: data})
}

func respondPaginated(c *fiber.Ctx, status int, data interface{}, p models.Pagination, message string) error {
	return c.Status(status).JSON(successEnvelope{Success: true, Message: message, Data: data, Pagination: &p})
}

func respondError(c *fiber.Ctx, status int, message string, fields []apperr.FieldError) error {
	if fields == nil {
		fields = []apperr.FieldError{}
	}
	return c.Status(status).JSON(errorEnvelope{Success: false, Message: message, Errors: fields})
}
