package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

type Payment struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApplicantID uuid.UUID     `gorm:"type:uuid;not null;index" json:"applicant_id"`
	Invoice     string        `gorm:"size:26;not null;uniqueIndex" json:"invoice"`
	Provider    string        `gorm:"size:30;not null" json:"provider"`
	Amount      string        `gorm:"size:20;not null" json:"amount"`
	Currency    string        `gorm:"size:3;not null" json:"currency"`
	Status      PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Applicant   Applicant     `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"-"`
}
