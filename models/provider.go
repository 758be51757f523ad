package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceProvider is a business listed in the directory.
type ServiceProvider struct {
	ID                  uuid.UUID              `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TypeID              *uuid.UUID             `gorm:"type:uuid;index" json:"type_id"`
	Type                *ServiceProviderType   `gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT" json:"type,omitempty"`
	CategoryID          uuid.UUID              `gorm:"type:uuid;not null;index" json:"category_id"`
	Category            *Category              `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Title               string                 `gorm:"size:255;not null" json:"title"`
	Slug                string                 `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description         string                 `gorm:"type:text" json:"description"`
	Address             string                 `gorm:"size:255" json:"address"`
	Phone               string                 `gorm:"size:20" json:"phone_number"`
	Website             string                 `gorm:"size:255" json:"website"`
	Rating              float64                `gorm:"not null;default:0" json:"rating"`
	IsActive            bool                   `gorm:"not null" json:"is_active"`
	PinnedCount         int                    `gorm:"not null;default:0" json:"pinned_count"`
	Owner               uuid.UUID              `gorm:"type:uuid;not null;index" json:"owner"`
	Tags                []Tag                  `gorm:"many2many:provider_tags;" json:"tags,omitempty"`
	Images              []ServiceProviderImage `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	SpecificationValues []SpecificationValue   `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews             []Review               `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	Products            []Product              `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	SocialLinks         []SocialLink           `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

func (ServiceProvider) TableName() string {
	return "service_providers"
}

func (p *ServiceProvider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
