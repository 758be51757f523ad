package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocialTypes lists the accepted values of SocialLink.SocialType.
var SocialTypes = map[string]string{
	"facebook":  "Facebook",
	"twitter":   "Twitter",
	"instagram": "Instagram",
	"linkedin":  "LinkedIn",
}

type SocialLink struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	SocialType string    `gorm:"size:20;not null;default:facebook" json:"social_type"`
	URL        string    `json:"url"`
}

func (l *SocialLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.SocialType == "" {
		l.SocialType = "facebook"
	}
	return nil
}
