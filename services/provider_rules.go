package services

import (
	"errors"
	"fmt"

	"baggr-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckProviderCategory verifies the provider's category exists and has not
// been deactivated.
func CheckProviderCategory(tx *gorm.DB, categoryID uuid.UUID) error {
	var cat models.Category
	err := tx.Select("id", "is_active").Where("id = ?", categoryID).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewFieldError("category_id", "Category does not exist")
	}
	if err != nil {
		return err
	}
	if !cat.IsActive {
		return NewFieldError("category_id", "Category is inactive")
	}
	return nil
}

// CheckProviderType verifies an optional provider type exists.
func CheckProviderType(tx *gorm.DB, typeID *uuid.UUID) error {
	if typeID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.ServiceProviderType{}).Where("id = ?", *typeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NewFieldError("type_id", "Provider type does not exist")
	}
	return nil
}

// CheckTypeChange refuses to move a provider to another type while it still
// holds specification values of a different type.
func CheckTypeChange(tx *gorm.DB, providerID, newType uuid.UUID) error {
	var count int64
	err := tx.Model(&models.SpecificationValue{}).
		Joins("JOIN service_provider_specifications AS specs ON specs.id = service_provider_specification_values.specification_id").
		Where("service_provider_specification_values.provider_id = ? AND specs.type_id <> ?", providerID, newType).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return NewFieldError("type_id",
			fmt.Sprintf("Provider has %d specification value(s) of its current type; remove them first", count))
	}
	return nil
}

// LockProvider loads a provider by id with a row lock held until the
// transaction ends. Review writes take it before touching reviews so rating
// recomputes are serialized per provider.
func LockProvider(tx *gorm.DB, providerID uuid.UUID) (*models.ServiceProvider, error) {
	var p models.ServiceProvider
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", providerID).First(&p).Error; err != nil {
		return nil, notFound(err, "provider")
	}
	return &p, nil
}

// CheckSpecificationValue enforces that a specification value belongs to a
// specification of the provider's own type.
func CheckSpecificationValue(tx *gorm.DB, provider *models.ServiceProvider, specificationID uuid.UUID) (*models.Specification, error) {
	var spec models.Specification
	if err := tx.Where("id = ?", specificationID).First(&spec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewFieldError("specification_id", "Specification does not exist")
		}
		return nil, err
	}

	if provider.TypeID == nil || *provider.TypeID != spec.TypeID {
		return nil, NewFieldError("specification_id",
			fmt.Sprintf("Specification %q does not belong to the provider's type", spec.Name))
	}
	return &spec, nil
}

// AdjustPinnedCount adds delta to the provider's pin counter without letting
// it drop below zero. The update is a single statement so concurrent pins
// do not lose increments.
func AdjustPinnedCount(tx *gorm.DB, providerID uuid.UUID, delta int) (int, error) {
	res := tx.Model(&models.ServiceProvider{}).
		Where("id = ?", providerID).
		Update("pinned_count", gorm.Expr("CASE WHEN pinned_count + ? < 0 THEN 0 ELSE pinned_count + ? END", delta, delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("provider %w", ErrNotFound)
	}

	var count int
	err := tx.Model(&models.ServiceProvider{}).Select("pinned_count").Where("id = ?", providerID).Row().Scan(&count)
	return count, err
}
