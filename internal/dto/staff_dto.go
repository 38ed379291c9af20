package dto

import (
	"time"

	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateApplicantRequest struct {
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	Mobile          *string `json:"mobile" validate:"omitempty,max=20"`
	FullName        *string `json:"fullName" validate:"omitempty,min=2,max=150"`
	Organization    *string `json:"organization" validate:"omitempty,max=200"`
	City            *string `json:"city" validate:"omitempty,max=100"`
	TeamName        *string `json:"teamName" validate:"omitempty,max=150"`
	TeamSize        *int    `json:"teamSize" validate:"omitempty,min=1,max=10"`
	GithubProfile   *string `json:"githubProfile" validate:"omitempty,max=255"`
	LinkedinProfile *string `json:"linkedinProfile" validate:"omitempty,max=255"`
}

type BulkStatusRequest struct {
	ApplicantIDs []string               `json:"applicantIds" validate:"required,min=1,max=500,dive,uuid"`
	Status       models.ApplicantStatus `json:"status" validate:"required"`
	Note         string                 `json:"note" validate:"max=500"`
}

type BulkStatusResponse struct {
	Updated int64 `json:"updated"`
}

type RoundRequest struct {
	Name         string             `json:"name" validate:"required,max=150"`
	Description  string             `json:"description" validate:"max=5000"`
	Status       models.RoundStatus `json:"status" validate:"omitempty,oneof=upcoming active completed"`
	StartTime    *time.Time         `json:"startTime"`
	EndTime      *time.Time         `json:"endTime"`
	Requirements []string           `json:"requirements" validate:"max=50,dive,max=500"`
}

type ReviewRequest struct {
	Status   models.SubmissionStatus `json:"status" validate:"required,oneof=reviewed selected rejected"`
	Score    *int                    `json:"score" validate:"omitempty,min=0,max=100"`
	Feedback string                  `json:"feedback" validate:"max=5000"`
}

type NotifyRequest struct {
	Statuses []models.ApplicantStatus `json:"statuses"`
	Subject  string                   `json:"subject" validate:"required,max=200"`
	Body     string                   `json:"body" validate:"required,max=10000"`
}

type EmailSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required"`
}
