package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionDraft     SubmissionStatus = "draft"
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionReviewed  SubmissionStatus = "reviewed"
	SubmissionSelected  SubmissionStatus = "selected"
	SubmissionRejected  SubmissionStatus = "rejected"
)

// ReviewOutcome reports whether a jury member may set the status.
func (s SubmissionStatus) ReviewOutcome() bool {
	return s == SubmissionReviewed || s == SubmissionSelected || s == SubmissionRejected
}

// StageSubmission is unique per (applicant, stage); resubmission updates it in place.
type StageSubmission struct {
	ID          uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApplicantID uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_submission_applicant_stage,priority:1" json:"applicant_id"`
	StageID     uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_submission_applicant_stage,priority:2;index" json:"stage_id"`
	GithubURL   string                      `gorm:"size:500" json:"github_url"`
	DemoURL     string                      `gorm:"size:500" json:"demo_url"`
	Notes       string                      `gorm:"type:text" json:"notes"`
	Documents   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"documents"`
	Status      SubmissionStatus            `gorm:"size:20;not null;default:'draft';index" json:"status"`
	SubmittedAt *time.Time                  `json:"submitted_at"`
	ReviewedAt  *time.Time                  `json:"reviewed_at,omitempty"`
	ReviewerID  *uuid.UUID                  `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	Score       *int                        `json:"score,omitempty"`
	Feedback    string                      `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Applicant   Applicant                   `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"-"`
	Stage       CompetitionRound            `gorm:"foreignKey:StageID" json:"-"`
}
