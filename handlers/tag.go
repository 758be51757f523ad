package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"baggr-backend/dtos"
	"baggr-backend/models"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TagHandler struct {
	DB *gorm.DB
}

func (h *TagHandler) GetTags(c *gin.Context) {
	var tags []models.Tag
	query := h.DB.WithContext(c.Request.Context()).Order("name ASC")
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", likePattern(search))
	}
	if err := query.Find(&tags).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req dtos.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(c, services.NewFieldError("name", "name is required"))
		return
	}

	tag := models.Tag{Name: name}
	if err := h.DB.WithContext(c.Request.Context()).Create(&tag).Error; err != nil {
		if services.IsUniqueViolation(err) {
			respondError(c, fmt.Errorf("tag %q %w", name, services.ErrConflict))
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// DeleteTag removes a tag and unlinks it from every provider.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "tag")
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM provider_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.NewNotFound("tag")
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
