package dtos

import (
	"baggr-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProviderRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Slug        string     `json:"slug" binding:"omitempty,max=255"`
	CategoryID  uuid.UUID  `json:"category_id" binding:"required"`
	TypeID      *uuid.UUID `json:"type_id"`
	Description string     `json:"description"`
	Address     string     `json:"address" binding:"max=255"`
	Phone       string     `json:"phone_number" binding:"max=20"`
	Website     string     `json:"website" binding:"omitempty,url,max=255"`
	IsActive    *bool      `json:"is_active"`
	Owner       *uuid.UUID `json:"owner"`
	Tags        []string   `json:"tags"`
}

// UpdateProviderRequest serves PUT and PATCH; nil fields are left alone.
type UpdateProviderRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Slug        *string    `json:"slug" binding:"omitempty,max=255"`
	CategoryID  *uuid.UUID `json:"category_id"`
	TypeID      *uuid.UUID `json:"type_id"`
	Description *string    `json:"description"`
	Address     *string    `json:"address" binding:"omitempty,max=255"`
	Phone       *string    `json:"phone_number" binding:"omitempty,max=20"`
	Website     *string    `json:"website" binding:"omitempty,url,max=255"`
	IsActive    *bool      `json:"is_active"`
}

// ProviderDetail is the aggregate returned by GET /providers/:slug.
type ProviderDetail struct {
	models.ServiceProvider
	Images              []models.ServiceProviderImage `json:"images"`
	SpecificationValues []models.SpecificationValue   `json:"specification_values"`
	Reviews             []models.Review               `json:"reviews"`
	Products            []models.Product              `json:"products"`
	SocialLinks         []models.SocialLink           `json:"social_links"`
}

type PaginatedProviders struct {
	Providers []models.ServiceProvider `json:"providers"`
	Total     int64                    `json:"total"`
	Page      int                      `json:"page"`
	Limit     int                      `json:"limit"`
	Pages     int                      `json:"pages"`
}

type ReviewRequest struct {
	Rating  *float64 `json:"rating" binding:"required,gte=0,lte=5"`
	Comment string   `json:"comment" binding:"required,max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Comment *string  `json:"comment" binding:"omitempty,min=1,max=1000"`
}

// ProductForm is bound from multipart form data or JSON.
type ProductForm struct {
	Name        string          `form:"name" json:"name" binding:"required,max=255"`
	Category    string          `form:"category" json:"category" binding:"required,max=255"`
	Price       decimal.Decimal `form:"-" json:"price"`
	Description string          `form:"description" json:"description"`
	ImageURL    string          `form:"image_url" json:"image_url" binding:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	Category    *string          `json:"category" binding:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
}

type SocialLinkRequest struct {
	SocialType string `json:"social_type" binding:"omitempty,oneof=facebook twitter instagram linkedin"`
	URL        string `json:"url" binding:"required,url"`
}

type SpecificationValueRequest struct {
	SpecificationID uuid.UUID `json:"specification_id" binding:"required"`
	Value           string    `json:"value" binding:"required,max=255"`
}

type TagsRequest struct {
	Tags []string `json:"tags" binding:"required,dive,required,max=255"`
}

type TagRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type ProviderTypeRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	IsActive *bool  `json:"is_active"`
}

type SpecificationRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type PinResponse struct {
	PinnedCount int `json:"pinned_count"`
}
