package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultProfilePicture   = "profile_pictures/default.png"
	DefaultSubscriptionPlan = "Free"
)

// User is an account of the authentication service.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"uuid"`
	Username         string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	FirstName        string     `gorm:"size:150" json:"first_name"`
	LastName         string     `gorm:"size:150" json:"last_name"`
	EmailVerified    bool       `gorm:"not null" json:"email_verified"`
	ProfilePicture   string     `json:"profile_picture"`
	PicturePath      string     `json:"-"`
	SubscriptionPlan string     `gorm:"size:255" json:"subscription_plan"`
	OTP              string     `gorm:"size:12" json:"-"`
	OTPCreatedAt     *time.Time `json:"-"`
	AcceptTerms      bool       `gorm:"not null" json:"-"`
	IsStaff          bool       `gorm:"not null" json:"is_staff"`
	IsSuperuser      bool       `gorm:"not null" json:"is_superuser"`
	IsActive         bool       `gorm:"not null" json:"-"`
	LastLogin        *time.Time `json:"-"`
	Profile          *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time  `json:"date_joined"`
	UpdatedAt        time.Time  `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.ProfilePicture == "" {
		u.ProfilePicture = DefaultProfilePicture
	}
	if u.SubscriptionPlan == "" {
		u.SubscriptionPlan = DefaultSubscriptionPlan
	}
	return nil
}
