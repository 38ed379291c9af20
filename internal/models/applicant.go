package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicantStatus is the primary state variable of an applicant.
type ApplicantStatus string

const (
	StatusRegistered  ApplicantStatus = "registered"
	StatusSelected    ApplicantStatus = "selected"
	StatusConfirmed   ApplicantStatus = "confirmed"
	StatusSubmitted   ApplicantStatus = "submitted"
	StatusWon         ApplicantStatus = "won"
	StatusNotSelected ApplicantStatus = "not_selected"

	// Legacy round markers still present on older rows.
	StatusRound1Qualified ApplicantStatus = "round1_qualified"
	StatusRound2Qualified ApplicantStatus = "round2_qualified"
)

var applicantStatuses = map[ApplicantStatus]bool{
	StatusRegistered:      true,
	StatusSelected:        true,
	StatusConfirmed:       true,
	StatusSubmitted:       true,
	StatusWon:             true,
	StatusNotSelected:     true,
	StatusRound1Qualified: true,
	StatusRound2Qualified: true,
}

func (s ApplicantStatus) Valid() bool {
	return applicantStatuses[s]
}

type Applicant struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email            string          `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Mobile           string          `gorm:"size:20;index" json:"mobile"`
	RegistrationCode string          `gorm:"size:20;not null;uniqueIndex" json:"registration_code"`
	FullName         string          `gorm:"size:150;not null" json:"full_name"`
	Organization     string          `gorm:"size:200" json:"organization"`
	City             string          `gorm:"size:100" json:"city"`
	TeamName         string          `gorm:"size:150" json:"team_name"`
	TeamSize         int             `gorm:"default:1" json:"team_size"`
	GithubProfile    string          `gorm:"size:255" json:"github_profile"`
	LinkedinProfile  string          `gorm:"size:255" json:"linkedin_profile"`
	Status           ApplicantStatus `gorm:"size:30;not null;default:'registered';index" json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
