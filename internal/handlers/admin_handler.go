package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

// AdminHandler serves the applicant management, stats and notification routes.
type AdminHandler struct {
	applicants    *services.ApplicantService
	stats         *services.StatsService
	notifications *services.NotificationService
}

func NewAdminHandler(applicants *services.ApplicantService, stats *services.StatsService, notifications *services.NotificationService) *AdminHandler {
	return &AdminHandler{applicants: applicants, stats: stats, notifications: notifications}
}

func (h *AdminHandler) ListApplicants(c *fiber.Ctx) error {
	limit, offset := page(c)
	items, total, err := h.applicants.List(c.UserContext(), repository.ApplicantFilter{
		Statuses: statusList(c.Query("status")),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return respondError(c, err, "list applicants failed")
	}
	return c.JSON(dto.ListResponse[models.Applicant]{Items: items, Total: total, Limit: limit, Offset: offset})
}

func (h *AdminHandler) GetApplicant(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid applicant id")
	}
	a, err := h.applicants.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "get applicant failed")
	}
	return c.JSON(a)
}

func (h *AdminHandler) UpdateApplicant(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid applicant id")
	}
	var req dto.UpdateApplicantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	a, err := h.applicants.Update(c.UserContext(), id, services.ApplicantUpdate{
		Email:           req.Email,
		Mobile:          req.Mobile,
		FullName:        req.FullName,
		Organization:    req.Organization,
		City:            req.City,
		TeamName:        req.TeamName,
		TeamSize:        req.TeamSize,
		GithubProfile:   req.GithubProfile,
		LinkedinProfile: req.LinkedinProfile,
	})
	if err != nil {
		return respondError(c, err, "update applicant failed")
	}
	return c.JSON(a)
}

func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.BulkStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ids := make([]uuid.UUID, 0, len(req.ApplicantIDs))
	for _, raw := range req.ApplicantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid applicant id "+raw)
		}
		ids = append(ids, id)
	}

	n, err := h.applicants.UpdateStatus(c.UserContext(), ids, req.Status, req.Note)
	if err != nil {
		return respondError(c, err, "status update failed")
	}
	return c.JSON(dto.BulkStatusResponse{Updated: n})
}

func (h *AdminHandler) DeleteApplicant(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid applicant id")
	}
	if err := h.applicants.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "delete applicant failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Get(c.UserContext())
	if err != nil {
		return respondError(c, err, "stats failed")
	}
	return c.JSON(stats)
}

func (h *AdminHandler) Notify(c *fiber.Ctx) error {
	var req dto.NotifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	res, err := h.notifications.Dispatch(c.UserContext(), req.Statuses, req.Subject, req.Body)
	if err != nil {
		return respondError(c, err, "notification dispatch failed")
	}
	return c.JSON(res)
}
