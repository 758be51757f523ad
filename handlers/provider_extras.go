package handlers

import (
	"errors"
	"net/http"

	"baggr-backend/dtos"
	"baggr-backend/models"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *ProviderHandler) AddSocialLink(c *gin.Context) {
	var req dtos.SocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var link models.SocialLink
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		link = models.SocialLink{ProviderID: provider.ID, SocialType: req.SocialType, URL: req.URL}
		return tx.Create(&link).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *ProviderHandler) DeleteSocialLink(c *gin.Context) {
	linkID, ok := parseUUIDParam(c, "linkId", "social link")
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		var link models.SocialLink
		if err := findChild(tx, &link, linkID, provider.ID, "social link"); err != nil {
			return err
		}
		return tx.Delete(&link).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetSpecificationValue creates or replaces the provider's value for one
// specification of its type.
func (h *ProviderHandler) SetSpecificationValue(c *gin.Context) {
	var req dtos.SpecificationValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var value models.SpecificationValue
	status := http.StatusOK
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		if _, err := services.CheckSpecificationValue(tx, provider, req.SpecificationID); err != nil {
			return err
		}

		err = tx.Where("provider_id = ? AND specification_id = ?", provider.ID, req.SpecificationID).First(&value).Error
		switch {
		case err == nil:
			return tx.Model(&value).Update("value", req.Value).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusCreated
			value = models.SpecificationValue{
				ProviderID:      provider.ID,
				SpecificationID: req.SpecificationID,
				Value:           req.Value,
			}
			return tx.Create(&value).Error
		default:
			return err
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Preload("Specification").First(&value, "id = ?", value.ID).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(status, value)
}

func (h *ProviderHandler) DeleteSpecificationValue(c *gin.Context) {
	valueID, ok := parseUUIDParam(c, "valueId", "specification value")
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		var value models.SpecificationValue
		if err := findChild(tx, &value, valueID, provider.ID, "specification value"); err != nil {
			return err
		}
		return tx.Delete(&value).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetTags replaces the provider's tag set. Unknown names become new tags.
func (h *ProviderHandler) SetTags(c *gin.Context) {
	var req dtos.TagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var tags []models.Tag
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		tags, err = services.ResolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		return tx.Model(provider).Association("Tags").Replace(tags)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Pin and Unpin adjust the provider's pin counter for any signed-in caller.
func (h *ProviderHandler) Pin(c *gin.Context) {
	h.adjustPins(c, 1)
}

func (h *ProviderHandler) Unpin(c *gin.Context) {
	h.adjustPins(c, -1)
}

func (h *ProviderHandler) adjustPins(c *gin.Context, delta int) {
	var count int
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		count, err = services.AdjustPinnedCount(tx, provider.ID, delta)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.PinResponse{PinnedCount: count})
}
