package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"baggr-backend/dtos"
	"baggr-backend/models"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProviderTypeHandler struct {
	DB *gorm.DB
}

func (h *ProviderTypeHandler) GetProviderTypes(c *gin.Context) {
	var types []models.ServiceProviderType
	query := h.DB.WithContext(c.Request.Context()).Order("name ASC")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&types).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// GetProviderType returns a type with its specifications.
func (h *ProviderTypeHandler) GetProviderType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "provider type")
	if !ok {
		return
	}

	var pt models.ServiceProviderType
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("id = ?", id).
		First(&pt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider type not found"})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, pt)
}

func (h *ProviderTypeHandler) CreateProviderType(c *gin.Context) {
	var req dtos.ProviderTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pt := models.ServiceProviderType{Name: req.Name, IsActive: true}
	if req.IsActive != nil {
		pt.IsActive = *req.IsActive
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&pt).Error; err != nil {
		if services.IsUniqueViolation(err) {
			respondError(c, fmt.Errorf("provider type %q %w", req.Name, services.ErrConflict))
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pt)
}

func (h *ProviderTypeHandler) AddSpecification(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "provider type")
	if !ok {
		return
	}

	var req dtos.SpecificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var spec models.Specification
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ServiceProviderType{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return services.NewNotFound("provider type")
		}

		if err := tx.Model(&models.Specification{}).Where("type_id = ? AND name = ?", id, req.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("specification %q %w for this type", req.Name, services.ErrConflict)
		}

		spec = models.Specification{TypeID: id, Name: req.Name}
		return tx.Create(&spec).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, spec)
}
