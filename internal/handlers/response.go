package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/eligibility"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

var errInvalidBody = errors.New("Invalid request body")

// bindAndValidate parses the JSON body into req and runs its validate tags.
func bindAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errInvalidBody
	}
	return dto.Validate(req)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrApplicantNotFound),
		errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, eligibility.ErrStageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrStaffExists),
		errors.Is(err, services.ErrNotificationsDisabled):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidReview),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrOTPInvalid),
		errors.Is(err, services.ErrOTPTooManyAttempts),
		errors.Is(err, eligibility.ErrStageInactive),
		errors.Is(err, eligibility.ErrStageExpired):
		return fiber.StatusBadRequest
	case errors.Is(err, eligibility.ErrNotEligible):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrSessionInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrOTPRateLimited):
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}

// respondError maps a service error to its HTTP status. Unexpected errors
// are logged and answered with a generic message.
func respondError(c *fiber.Ctx, err error, logMsg string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		slog.Error(logMsg, "path", c.Path(), "request_id", requestID(c), "error", err)
		return c.Status(status).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func formatSeconds(s float64) string {
	return strconv.Itoa(int(s + 0.5))
}

func page(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func statusList(raw string) []models.ApplicantStatus {
	if raw == "" {
		return nil
	}
	var out []models.ApplicantStatus
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, models.ApplicantStatus(s))
		}
	}
	return out
}
