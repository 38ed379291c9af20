package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

type RoundHandler struct {
	rounds *services.RoundService
}

func NewRoundHandler(rounds *services.RoundService) *RoundHandler {
	return &RoundHandler{rounds: rounds}
}

func roundInput(req dto.RoundRequest) services.RoundInput {
	return services.RoundInput{
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Requirements: req.Requirements,
	}
}

func (h *RoundHandler) List(c *fiber.Ctx) error {
	rounds, err := h.rounds.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "list rounds failed")
	}
	return c.JSON(fiber.Map{"rounds": rounds})
}

func (h *RoundHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid round id")
	}
	r, err := h.rounds.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "get round failed")
	}
	return c.JSON(r)
}

func (h *RoundHandler) Create(c *fiber.Ctx) error {
	var req dto.RoundRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	r, err := h.rounds.Create(c.UserContext(), roundInput(req))
	if err != nil {
		return respondError(c, err, "create round failed")
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *RoundHandler) Update(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid round id")
	}
	var req dto.RoundRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	r, err := h.rounds.Update(c.UserContext(), id, roundInput(req))
	if err != nil {
		return respondError(c, err, "update round failed")
	}
	return c.JSON(r)
}

func (h *RoundHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid round id")
	}
	if err := h.rounds.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "delete round failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
