package services

import (
	"errors"
	"fmt"
	"strings"

	"baggr-backend/models"
	"baggr-backend/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxSlugAttempts = 100

// FindProvider loads a provider by slug.
func FindProvider(tx *gorm.DB, providerSlug string) (*models.ServiceProvider, error) {
	var p models.ServiceProvider
	if err := tx.Where("slug = ?", providerSlug).First(&p).Error; err != nil {
		return nil, notFound(err, "provider")
	}
	return &p, nil
}

// ProviderSlug returns the slug to store for a provider. An explicit slug must
// be valid and free. When none is given one is derived from the title, with
// a numeric suffix if the plain form is taken.
func ProviderSlug(tx *gorm.DB, title, given string, exclude *uuid.UUID) (string, error) {
	taken := func(s string) (bool, error) {
		q := tx.Model(&models.ServiceProvider{}).Where("slug = ?", s)
		if exclude != nil {
			q = q.Where("id <> ?", *exclude)
		}
		var count int64
		err := q.Count(&count).Error
		return count > 0, err
	}

	if given = strings.TrimSpace(given); given != "" {
		if !utils.IsValidSlug(given) {
			return "", NewFieldError("slug", "Enter a valid slug consisting of lowercase letters, numbers, underscores or hyphens")
		}
		exists, err := taken(given)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("provider with slug %q already exists: %w", given, ErrConflict)
		}
		return given, nil
	}

	base := slug.Make(title)
	if base == "" {
		return "", NewFieldError("title", "Title must contain letters or digits")
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q: %w", title, ErrConflict)
}

// ResolveTags returns the tags with the given names, creating the ones that
// do not exist yet. Names are trimmed and deduplicated.
func ResolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: name}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// DeleteProvider removes a provider together with everything it owns. Tags
// are shared and only unlinked. Object paths of stored files are returned so
// the caller can remove them once the transaction commits.
func DeleteProvider(tx *gorm.DB, p *models.ServiceProvider) ([]string, error) {
	var files []string

	var images []models.ServiceProviderImage
	if err := tx.Where("provider_id = ?", p.ID).Find(&images).Error; err != nil {
		return nil, err
	}
	for _, img := range images {
		if img.ObjectPath != "" {
			files = append(files, img.ObjectPath)
		}
	}

	var products []models.Product
	if err := tx.Where("provider_id = ?", p.ID).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, prod := range products {
		if prod.ImagePath != "" {
			files = append(files, prod.ImagePath)
		}
	}

	if err := tx.Model(p).Association("Tags").Clear(); err != nil {
		return nil, err
	}
	for _, child := range []interface{}{
		&models.ServiceProviderImage{},
		&models.SpecificationValue{},
		&models.Review{},
		&models.Product{},
		&models.SocialLink{},
	} {
		if err := tx.Where("provider_id = ?", p.ID).Delete(child).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Delete(p).Error; err != nil {
		return nil, err
	}
	return files, nil
}
