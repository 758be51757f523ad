package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceProviderImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	ImageURL   string    `gorm:"not null" json:"image"`
	ObjectPath string    `json:"-"`
	AltText    *string   `gorm:"size:255" json:"alt_text"`
	IsFeature  bool      `gorm:"not null" json:"is_feature"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ServiceProviderImage) TableName() string {
	return "service_provider_images"
}

func (i *ServiceProviderImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
