package handlers

import (
	"errors"
	"net/http"
	"strings"

	"baggr-backend/dtos"
	"baggr-backend/identity"
	"baggr-backend/middleware"
	"baggr-backend/models"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewHandler manages provider reviews. Every mutation recomputes the
// provider's cached rating in the same transaction.
type ReviewHandler struct {
	DB *gorm.DB
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())
	p := parsePagination(c)

	provider, err := services.FindProvider(db, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	var total int64
	var reviews []models.Review
	query := db.Model(&models.Review{}).Where("provider_id = ?", provider.ID)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		internalError(c, err)
		return
	}
	if err := query.Order("created_at DESC").Offset(p.offset()).Limit(p.Limit).Find(&reviews).Error; err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"rating":  provider.Rating,
		"total":   total,
		"page":    p.Page,
		"limit":   p.Limit,
		"pages":   p.pages(total),
	})
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dtos.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		respondError(c, services.NewFieldError("comment", "comment is required"))
		return
	}

	var review models.Review
	var rating float64
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		found, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		provider, err := services.LockProvider(tx, found.ID)
		if err != nil {
			return err
		}
		review = models.Review{
			ProviderID: provider.ID,
			UserID:     user.UUID,
			Rating:     *req.Rating,
			Comment:    comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		rating, err = services.RecomputeRating(tx, provider.ID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review, "provider_rating": rating})
}

// canEditReview lets the author and staff change a review.
func canEditReview(user *identity.UserInfo, review *models.Review) bool {
	return user.IsStaff || user.UUID == review.UserID
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	user, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	var req dtos.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var review models.Review
	var rating float64
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := loadReview(tx, id, &review); err != nil {
			return err
		}
		if !canEditReview(user, &review) {
			return services.ErrForbidden
		}
		if _, err := services.LockProvider(tx, review.ProviderID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Rating != nil {
			updates["rating"] = *req.Rating
		}
		if req.Comment != nil {
			comment := strings.TrimSpace(*req.Comment)
			if comment == "" {
				return services.NewFieldError("comment", "comment is required")
			}
			updates["comment"] = comment
		}
		if len(updates) > 0 {
			if err := tx.Model(&review).Updates(updates).Error; err != nil {
				return err
			}
		}

		var err error
		rating, err = services.RecomputeRating(tx, review.ProviderID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review, "provider_rating": rating})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	user, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := loadReview(tx, id, &review); err != nil {
			return err
		}
		if !canEditReview(user, &review) {
			return services.ErrForbidden
		}
		if _, err := services.LockProvider(tx, review.ProviderID); err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		_, err := services.RecomputeRating(tx, review.ProviderID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func loadReview(tx *gorm.DB, id uuid.UUID, review *models.Review) error {
	if err := tx.Where("id = ?", id).First(review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.NewNotFound("review")
		}
		return err
	}
	return nil
}
