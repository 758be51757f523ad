package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"baggr-backend/dtos"
	"baggr-backend/firebase"
	"baggr-backend/models"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProviderHandler struct {
	DB         *gorm.DB
	Categories *services.CategoryStore
	Storage    firebase.StorageClient
}

// GetProviders lists active providers with optional filters:
// category (id or slug, descendants included), tag, type, search.
func (h *ProviderHandler) GetProviders(c *gin.Context) {
	ctx := c.Request.Context()
	p := parsePagination(c)

	query := h.DB.WithContext(ctx).Model(&models.ServiceProvider{}).Where("service_providers.is_active = ?", true)

	if category := c.Query("category"); category != "" {
		cat, err := h.Categories.Resolve(ctx, category)
		if err != nil {
			respondError(c, err)
			return
		}
		subtree, err := h.Categories.ListDescendants(ctx, cat.ID, true)
		if err != nil {
			respondError(c, err)
			return
		}
		catIDs := make([]uuid.UUID, 0, len(subtree))
		for _, sc := range subtree {
			catIDs = append(catIDs, sc.ID)
		}
		query = query.Where("service_providers.category_id IN ?", catIDs)
	}

	if tag := c.Query("tag"); tag != "" {
		query = query.Where("service_providers.id IN (?)",
			h.DB.Table("provider_tags").
				Select("provider_tags.service_provider_id").
				Joins("JOIN tags ON tags.id = provider_tags.tag_id").
				Where("tags.name = ?", tag))
	}

	if typ := c.Query("type"); typ != "" {
		if typeID, err := uuid.Parse(typ); err == nil {
			query = query.Where("service_providers.type_id = ?", typeID)
		} else {
			query = query.Where("service_providers.type_id IN (?)",
				h.DB.Model(&models.ServiceProviderType{}).Select("id").Where("LOWER(name) = LOWER(?)", typ))
		}
	}

	if search := c.Query("search"); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(service_providers.title) LIKE LOWER(?) OR LOWER(service_providers.description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		internalError(c, err)
		return
	}

	var providers []models.ServiceProvider
	if err := query.
		Preload("Category").
		Preload("Type").
		Preload("Tags").
		Order("service_providers.rating DESC, service_providers.title ASC").
		Offset(p.offset()).
		Limit(p.Limit).
		Find(&providers).Error; err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dtos.PaginatedProviders{
		Providers: providers,
		Total:     total,
		Page:      p.Page,
		Limit:     p.Limit,
		Pages:     p.pages(total),
	})
}

// GetProvider returns an active provider with everything it owns.
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())

	var provider models.ServiceProvider
	if err := db.
		Preload("Category").
		Preload("Type").
		Preload("Tags").
		Where("slug = ? AND is_active = ?", c.Param("slug"), true).
		First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}
		internalError(c, err)
		return
	}

	detail := dtos.ProviderDetail{
		ServiceProvider:     provider,
		Images:              []models.ServiceProviderImage{},
		SpecificationValues: []models.SpecificationValue{},
		Reviews:             []models.Review{},
		Products:            []models.Product{},
		SocialLinks:         []models.SocialLink{},
	}
	loads := []struct {
		dest  interface{}
		order string
	}{
		{&detail.Images, "is_feature DESC, created_at ASC"},
		{&detail.Reviews, "created_at DESC"},
		{&detail.Products, "name ASC"},
		{&detail.SocialLinks, "social_type ASC"},
	}
	for _, l := range loads {
		if err := db.Where("provider_id = ?", provider.ID).Order(l.order).Find(l.dest).Error; err != nil {
			internalError(c, err)
			return
		}
	}
	if err := db.Preload("Specification").Where("provider_id = ?", provider.ID).Find(&detail.SpecificationValues).Error; err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var req dtos.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	provider := models.ServiceProvider{
		Title:       req.Title,
		CategoryID:  req.CategoryID,
		TypeID:      req.TypeID,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		IsActive:    true,
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}
	if req.Owner != nil {
		provider.Owner = *req.Owner
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := services.CheckProviderCategory(tx, provider.CategoryID); err != nil {
			return err
		}
		if err := services.CheckProviderType(tx, provider.TypeID); err != nil {
			return err
		}
		s, err := services.ProviderSlug(tx, provider.Title, req.Slug, nil)
		if err != nil {
			return err
		}
		provider.Slug = s

		if err := tx.Create(&provider).Error; err != nil {
			if services.IsUniqueViolation(err) {
				return fmt.Errorf("provider with this slug %w", services.ErrConflict)
			}
			return err
		}

		if len(req.Tags) > 0 {
			tags, err := services.ResolveTags(tx, req.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&provider).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	zap.L().Info("provider created", zap.String("slug", provider.Slug), zap.String("id", provider.ID.String()))
	h.respondProvider(c, http.StatusCreated, provider.ID)
}

// UpdateProvider serves PUT and PATCH; only the fields present change.
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	var req dtos.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var id uuid.UUID
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		id = provider.ID

		updates := map[string]interface{}{}
		if req.CategoryID != nil {
			if err := services.CheckProviderCategory(tx, *req.CategoryID); err != nil {
				return err
			}
			updates["category_id"] = *req.CategoryID
		}
		if req.TypeID != nil {
			if err := services.CheckProviderType(tx, req.TypeID); err != nil {
				return err
			}
			if err := services.CheckTypeChange(tx, provider.ID, *req.TypeID); err != nil {
				return err
			}
			updates["type_id"] = *req.TypeID
		}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Slug != nil && *req.Slug != provider.Slug {
			s, err := services.ProviderSlug(tx, provider.Title, *req.Slug, &provider.ID)
			if err != nil {
				return err
			}
			updates["slug"] = s
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Address != nil {
			updates["address"] = *req.Address
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if req.Website != nil {
			updates["website"] = *req.Website
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(provider).Updates(updates).Error; err != nil {
			if services.IsUniqueViolation(err) {
				return fmt.Errorf("provider with this slug %w", services.ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondProvider(c, http.StatusOK, id)
}

// DeleteProvider removes the provider and everything it owns in one
// transaction, then cleans up stored files.
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	ctx := c.Request.Context()

	var files []string
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		files, err = services.DeleteProvider(tx, provider)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.deleteFiles(ctx, files...)
	c.Status(http.StatusNoContent)
}

func (h *ProviderHandler) respondProvider(c *gin.Context, status int, id uuid.UUID) {
	var provider models.ServiceProvider
	if err := h.DB.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Type").
		Preload("Tags").
		First(&provider, "id = ?", id).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(status, provider)
}

// deleteFiles removes stored objects. Failures are logged; the rows are
// already gone.
func (h *ProviderHandler) deleteFiles(ctx context.Context, paths ...string) {
	if h.Storage == nil {
		return
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := h.Storage.DeleteFile(ctx, p); err != nil {
			zap.L().Warn("failed to delete stored file", zap.String("path", p), zap.Error(err))
		}
	}
}
