package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetEmail(c *fiber.Ctx) error {
	values, err := h.settings.EmailSettings(c.UserContext())
	if err != nil {
		return respondError(c, err, "load settings failed")
	}
	return c.JSON(fiber.Map{"settings": values})
}

func (h *SettingsHandler) PutEmail(c *fiber.Ctx) error {
	var req dto.EmailSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	values, err := h.settings.UpdateEmailSettings(c.UserContext(), req.Settings)
	if err != nil {
		return respondError(c, err, "save settings failed")
	}
	return c.JSON(fiber.Map{"settings": values})
}
