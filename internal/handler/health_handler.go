package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/inzone-go-api/internal/config"
	"github.com/noah-isme/inzone-go-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

// HealthCheck reports service metadata. ping, when set, probes the database.
func HealthCheck(cfg config.Config, ping func() error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Database:    "unknown",
		}

		if ping != nil {
			payload.Database = "up"
			if err := ping(); err != nil {
				payload.Status = "degraded"
				payload.Database = "down"
				return utils.Send(c, fiber.StatusServiceUnavailable, payload)
			}
		}

		return utils.Send(c, fiber.StatusOK, payload)
	}
}
