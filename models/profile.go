package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds per-user password reset state. Every user owns exactly one.
type Profile struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID              uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	ResetPasswordToken  string     `gorm:"size:50;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
