package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node of the service category forest. The tree is stored as a
// flat table with a nullable parent pointer; siblings are ordered by name.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string     `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Slug      string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Children  []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
