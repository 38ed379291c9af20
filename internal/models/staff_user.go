package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRole string

const (
	RoleAdmin StaffRole = "admin"
	RoleJury  StaffRole = "jury"
)

func (r StaffRole) Valid() bool {
	return r == RoleAdmin || r == RoleJury
}

// StaffUser is an admin or jury account. Applicants never log in here.
type StaffUser struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FullName  string         `gorm:"size:150" json:"full_name"`
	Role      StaffRole      `gorm:"size:20;not null;default:'jury'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
