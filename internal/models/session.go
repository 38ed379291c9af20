package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicantSession holds the sha256 of an opaque bearer token, never the token itself.
type ApplicantSession struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApplicantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"applicant_id"`
	TokenHash    string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
	Applicant    Applicant `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"-"`
}
