package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceProviderType struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string          `gorm:"size:255;uniqueIndex;not null" json:"name"`
	IsActive       bool            `gorm:"not null" json:"is_active"`
	Specifications []Specification `gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT" json:"specifications,omitempty"`
}

func (ServiceProviderType) TableName() string {
	return "service_provider_types"
}

func (t *ServiceProviderType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Specification is a named attribute that providers of one type can carry.
type Specification struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TypeID uuid.UUID `gorm:"type:uuid;not null;index" json:"type_id"`
	Name   string    `gorm:"size:255;not null" json:"name"`
}

func (Specification) TableName() string {
	return "service_provider_specifications"
}

func (s *Specification) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SpecificationValue binds a value of a Specification to one provider.
type SpecificationValue struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProviderID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"provider_id"`
	SpecificationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"specification_id"`
	Specification   *Specification `gorm:"foreignKey:SpecificationID;constraint:OnDelete:RESTRICT" json:"specification,omitempty"`
	Value           string         `gorm:"size:255;not null" json:"value"`
}

func (SpecificationValue) TableName() string {
	return "service_provider_specification_values"
}

func (v *SpecificationValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
