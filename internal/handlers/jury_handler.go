package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/middleware"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

type JuryHandler struct {
	submissions *services.SubmissionService
}

func NewJuryHandler(submissions *services.SubmissionService) *JuryHandler {
	return &JuryHandler{submissions: submissions}
}

// ListSubmissions accepts optional stage, status, limit and offset query parameters.
func (h *JuryHandler) ListSubmissions(c *fiber.Ctx) error {
	limit, offset := page(c)
	f := repository.SubmissionFilter{
		Status: models.SubmissionStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("stage"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid stage id")
		}
		f.StageID = &id
	}

	items, total, err := h.submissions.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err, "list submissions failed")
	}
	return c.JSON(dto.ListResponse[models.StageSubmission]{Items: items, Total: total, Limit: limit, Offset: offset})
}

func (h *JuryHandler) Review(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid submission id")
	}
	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	staff := middleware.CurrentStaff(c)
	sub, err := h.submissions.Review(c.UserContext(), id, staff.ID, req.Status, req.Score, req.Feedback)
	if err != nil {
		return respondError(c, err, "review failed")
	}
	return c.JSON(sub)
}
