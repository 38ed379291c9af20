package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting stores grouped key/value configuration editable from the admin panel.
type Setting struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Group     string    `gorm:"column:setting_group;size:50;not null;uniqueIndex:idx_settings_group_key,priority:1" json:"group"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_settings_group_key,priority:2" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
