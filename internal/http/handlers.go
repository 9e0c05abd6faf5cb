package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bionicpro/device-usage-reports/internal/service"
)

type runRequest struct {
	TriggerAt string `json:"trigger_at"`
}

// Register mounts the run-trigger API. The caller (an external scheduler)
// supplies the trigger instant; cadence and retry live with the caller.
func Register(app *fiber.App, svcs *service.Services) {
	api := app.Group("/api/v1")
	api.Post("/runs", func(c *fiber.Ctx) error {
		var req runRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
		}
		trigger := time.Now().UTC()
		if req.TriggerAt != "" {
			t, err := time.Parse(time.RFC3339, req.TriggerAt)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "trigger_at must be RFC3339"})
			}
			trigger = t
		}
		res, err := svcs.Pipeline.Run(c.Context(), trigger)
		if err != nil {
			return c.Status(502).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(res)
	})
}
