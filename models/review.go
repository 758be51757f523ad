package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinReviewRating = 0
	MaxReviewRating = 5
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user"`
	Rating     float64   `gorm:"not null;check:rating >= 0 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "service_provider_reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
