package services

import (
	"baggr-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecomputeRating sets the provider's cached rating to the mean of its
// reviews, or 0 when it has none. Call it inside the transaction that
// changed the reviews so the cached value is never stale.
func RecomputeRating(tx *gorm.DB, providerID uuid.UUID) (float64, error) {
	var avg float64
	row := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("provider_id = ?", providerID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return 0, err
	}

	if err := tx.Model(&models.ServiceProvider{}).Where("id = ?", providerID).Update("rating", avg).Error; err != nil {
		return 0, err
	}
	return avg, nil
}
