package models

import (
	"time"

	"github.com/google/uuid"
)

type OTPPurpose string

const (
	OTPPurposeLogin        OTPPurpose = "login"
	OTPPurposeRegistration OTPPurpose = "registration"
)

func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeLogin || p == OTPPurposeRegistration
}

// OTPVerification is a single issued code. Verified, expired and exhausted
// records are all terminal.
type OTPVerification struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Identifier string     `gorm:"size:255;not null;index:idx_otp_identifier_purpose,priority:1" json:"identifier"`
	Purpose    OTPPurpose `gorm:"size:20;not null;index:idx_otp_identifier_purpose,priority:2" json:"purpose"`
	Code       string     `gorm:"size:6;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	Verified   bool       `gorm:"default:false" json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Attempts   int        `gorm:"default:0" json:"attempts"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (OTPVerification) TableName() string {
	return "otp_verifications"
}
