package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/middleware"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

type StaffHandler struct {
	auth *services.StaffAuthService
}

func NewStaffHandler(auth *services.StaffAuthService) *StaffHandler {
	return &StaffHandler{auth: auth}
}

func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "staff login failed")
	}
	return c.JSON(resp)
}

func (h *StaffHandler) Me(c *fiber.Ctx) error {
	staff := middleware.CurrentStaff(c)
	return c.JSON(fiber.Map{"id": staff.ID, "email": staff.Email, "role": staff.Role})
}
