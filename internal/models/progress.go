package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationProgress is an append-only audit entry.
type ApplicationProgress struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index" json:"applicant_id"`
	StageName   string    `gorm:"size:150;not null" json:"stage_name"`
	Status      string    `gorm:"size:30;not null" json:"status"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (ApplicationProgress) TableName() string {
	return "application_progress"
}
