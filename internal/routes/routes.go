package routes

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/UdayIge/User-Management-System/internal/apperr"
	"github.com/UdayIge/User-Management-System/internal/handlers"
	"github.com/UdayIge/User-Management-System/internal/metrics"
)

// Register wires every endpoint. /users/export must precede /users/:id so the
// export path is not captured by the id parameter.
func Register(app *fiber.App, h *handlers.UserHandler) {
	app.Get("/health", h.Health)
	app.Get("/metrics", metrics.Handler())

	users := app.Group("/users")
	users.Get("/", h.List)
	users.Post("/", h.Create)
	users.Get("/export", h.Export)
	users.Get("/:id", h.GetByID)
	users.Put("/:id", h.Update)
	users.Delete("/:id", h.Delete)

	// unknown routes get the 404 envelope
	app.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound(fmt.Sprintf("Route %s not found", c.OriginalURL()))
	})
}
