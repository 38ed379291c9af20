package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/middleware"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/ratelimit"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

type ApplicantHandler struct {
	applicants  *services.ApplicantService
	otp         *services.OTPService
	sessions    *services.SessionService
	submissions *services.SubmissionService
}

func NewApplicantHandler(
	applicants *services.ApplicantService,
	otp *services.OTPService,
	sessions *services.SessionService,
	submissions *services.SubmissionService,
) *ApplicantHandler {
	return &ApplicantHandler{
		applicants:  applicants,
		otp:         otp,
		sessions:    sessions,
		submissions: submissions,
	}
}

func (h *ApplicantHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterApplicantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	applicant, err := h.applicants.Register(c.UserContext(), services.RegisterInput{
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
		return respondError(c, err, "registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(applicant)
}

func otpFailure(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.OTPResponse{Success: false, Message: msg})
}

func (h *ApplicantHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return otpFailure(c, fiber.StatusBadRequest, err.Error())
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = models.OTPPurposeLogin
	}

	msg, err := h.otp.SendOTP(c.UserContext(), req.Identifier, purpose)
	if err != nil {
		var limited *ratelimit.LimitError
		switch {
		case errors.As(err, &limited):
			c.Set(fiber.HeaderRetryAfter, formatSeconds(limited.RetryAfter.Seconds()))
			return otpFailure(c, fiber.StatusTooManyRequests, limited.Error())
		case errors.Is(err, services.ErrOTPRateLimited):
			return otpFailure(c, fiber.StatusTooManyRequests, err.Error())
		case errors.Is(err, services.ErrApplicantNotFound):
			return otpFailure(c, fiber.StatusNotFound, "No registration found for this email or mobile number")
		case errors.Is(err, services.ErrDeliveryFailed):
			return otpFailure(c, fiber.StatusInternalServerError, "Failed to send OTP, please try again later")
		}
		slog.Error("send otp failed", "request_id", requestID(c), "error", err)
		return otpFailure(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(dto.OTPResponse{Success: true, Message: msg})
}

func (h *ApplicantHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return otpFailure(c, fiber.StatusBadRequest, err.Error())
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = models.OTPPurposeLogin
	}

	res, err := h.otp.VerifyOTP(c.UserContext(), req.Identifier, req.OTP, purpose)
	if err != nil {
		if errors.Is(err, services.ErrOTPInvalid) || errors.Is(err, services.ErrOTPTooManyAttempts) {
			return otpFailure(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, services.ErrApplicantNotFound) {
			return otpFailure(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("verify otp failed", "request_id", requestID(c), "error", err)
		return otpFailure(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(dto.VerifyOTPResponse{
		Success:      true,
		SessionToken: res.SessionToken,
		ExpiresAt:    res.ExpiresAt,
		Applicant:    res.Applicant,
	})
}

func (h *ApplicantHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Destroy(c.UserContext(), middleware.CurrentSessionToken(c)); err != nil {
		return respondError(c, err, "logout failed")
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *ApplicantHandler) Dashboard(c *fiber.Ctx) error {
	applicant := middleware.CurrentApplicant(c)
	d, err := h.applicants.Dashboard(c.UserContext(), applicant)
	if err != nil {
		return respondError(c, err, "dashboard failed")
	}
	return c.JSON(dto.DashboardResponse{
		Applicant:            d.Applicant,
		Progress:             d.Progress,
		ActiveRounds:         d.ActiveRounds,
		Submissions:          d.Submissions,
		CurrentStatus:        d.Applicant.Status,
		RequiresConfirmation: d.RequiresConfirmation,
	})
}

func (h *ApplicantHandler) SubmitStage(c *fiber.Ctx) error {
	var req dto.SubmitStageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	stageID, err := uuid.Parse(req.StageID)
	if err != nil {
		return badRequest(c, "Invalid stageId")
	}

	applicant := middleware.CurrentApplicant(c)
	sub, err := h.submissions.Submit(c.UserContext(), applicant.ID, services.SubmissionInput{
		StageID:   stageID,
		GithubURL: req.GithubURL,
		DemoURL:   req.DemoURL,
		Notes:     req.Notes,
		Documents: req.Documents,
	})
	if err != nil {
		return respondError(c, err, "stage submission failed")
	}
	return c.JSON(dto.SubmitStageResponse{
		Message:    "Submission recorded successfully",
		Submission: sub,
	})
}

func (h *ApplicantHandler) MySubmissions(c *fiber.Ctx) error {
	applicant := middleware.CurrentApplicant(c)
	subs, err := h.submissions.ListForApplicant(c.UserContext(), applicant.ID)
	if err != nil {
		return respondError(c, err, "list submissions failed")
	}
	return c.JSON(dto.SubmissionsResponse{Submissions: subs})
}

func (h *ApplicantHandler) Confirm(c *fiber.Ctx) error {
	applicant, err := h.applicants.Confirm(c.UserContext(), middleware.CurrentApplicant(c).ID)
	if err != nil {
		return respondError(c, err, "confirmation failed")
	}
	return c.JSON(applicant)
}
