package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RoundStatus string

const (
	RoundUpcoming  RoundStatus = "upcoming"
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

func (s RoundStatus) Valid() bool {
	return s == RoundUpcoming || s == RoundActive || s == RoundCompleted
}

// CompetitionRound is one stage of the hackathon.
type CompetitionRound struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string                      `gorm:"size:150;not null" json:"name"`
	Description  string                      `gorm:"type:text" json:"description"`
	Status       RoundStatus                 `gorm:"size:20;not null;default:'upcoming';index" json:"status"`
	StartTime    *time.Time                  `json:"start_time"`
	EndTime      *time.Time                  `json:"end_time"`
	Requirements datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"requirements"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
