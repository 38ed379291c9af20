package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
)

type HealthHandler struct {
	driver string
	ping   func() error
}

// NewHealthHandler reports on the store named by driver; ping may be nil
// when the driver has no connection to check.
func NewHealthHandler(driver string, ping func() error) *HealthHandler {
	return &HealthHandler{driver: driver, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.ping == nil {
		dbStatus = "not used"
	} else if err := h.ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Storage:   h.driver,
	})
}
