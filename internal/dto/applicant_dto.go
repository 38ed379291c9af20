package dto

import (
	"time"

	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

type RegisterApplicantRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Mobile          string `json:"mobile" validate:"omitempty,min=7,max=20"`
	FullName        string `json:"fullName" validate:"required,min=2,max=150"`
	Organization    string `json:"organization" validate:"max=200"`
	City            string `json:"city" validate:"max=100"`
	TeamName        string `json:"teamName" validate:"max=150"`
	TeamSize        int    `json:"teamSize" validate:"omitempty,min=1,max=10"`
	GithubProfile   string `json:"githubProfile" validate:"omitempty,url,max=255"`
	LinkedinProfile string `json:"linkedinProfile" validate:"omitempty,url,max=255"`
}

type SendOTPRequest struct {
	Identifier string            `json:"identifier" validate:"required,max=255"`
	Purpose    models.OTPPurpose `json:"purpose" validate:"omitempty,oneof=login registration"`
}

type VerifyOTPRequest struct {
	Identifier string            `json:"identifier" validate:"required,max=255"`
	OTP        string            `json:"otp" validate:"required,len=6,numeric"`
	Purpose    models.OTPPurpose `json:"purpose" validate:"omitempty,oneof=login registration"`
}

type OTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerifyOTPResponse struct {
	Success      bool              `json:"success"`
	SessionToken string            `json:"sessionToken"`
	ExpiresAt    time.Time         `json:"expiresAt"`
	Applicant    *models.Applicant `json:"applicant"`
}

type SubmitStageRequest struct {
	StageID   string   `json:"stageId" validate:"required,uuid"`
	GithubURL string   `json:"githubUrl" validate:"required,url,max=500"`
	DemoURL   string   `json:"demoUrl" validate:"omitempty,url,max=500"`
	Notes     string   `json:"notes" validate:"max=5000"`
	Documents []string `json:"documents" validate:"max=10,dive,required,max=500"`
}

type SubmitStageResponse struct {
	Message    string                  `json:"message"`
	Submission *models.StageSubmission `json:"submission"`
}

type SubmissionsResponse struct {
	Submissions []models.StageSubmission `json:"submissions"`
}

type DashboardResponse struct {
	Applicant            *models.Applicant            `json:"applicant"`
	Progress             []models.ApplicationProgress `json:"progress"`
	ActiveRounds         []models.CompetitionRound    `json:"activeRounds"`
	Submissions          []models.StageSubmission     `json:"submissions"`
	CurrentStatus        models.ApplicantStatus       `json:"currentStatus"`
	RequiresConfirmation bool                         `json:"requiresConfirmation"`
}

type DocumentUploadResponse struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}
