package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultProductImage = "images/service_providers_products/default.png"

// Product is an item offered by a service provider.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProviderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"provider_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Category    string          `gorm:"size:255;not null" json:"category"`
	Image       string          `json:"image"`
	ImagePath   string          `json:"-"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "service_provider_products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Image == "" {
		p.Image = DefaultProductImage
	}
	return nil
}
