package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"baggr-backend/models"
	"baggr-backend/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMaxRetries = 3

// CategoryInput describes a new category. Slug is derived from Name when
// empty; IsActive defaults to true.
type CategoryInput struct {
	Name     string
	Slug     string
	ParentID *uuid.UUID
	IsActive *bool
}

// CategoryUpdate is a partial update. ParentSet distinguishes "move to root"
// (ParentSet with a nil ParentID) from "leave the parent alone".
type CategoryUpdate struct {
	Name      *string
	Slug      *string
	IsActive  *bool
	ParentSet bool
	ParentID  *uuid.UUID
}

// CategoryStore persists the category forest and enforces its shape.
type CategoryStore struct {
	DB                  *gorm.DB
	RequireActiveParent bool
	MaxRetries          int
}

func NewCategoryStore(db *gorm.DB, requireActiveParent bool) *CategoryStore {
	return &CategoryStore{DB: db, RequireActiveParent: requireActiveParent, MaxRetries: defaultMaxRetries}
}

// withTx runs fn in a transaction, serializable on PostgreSQL, retrying on
// serialization failures.
func (s *CategoryStore) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var opts *sql.TxOptions
	if s.DB.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	var err error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		err = s.DB.WithContext(ctx).Transaction(fn, opts)
		if !isSerializationFailure(err) {
			return err
		}
		zap.L().Warn("category transaction serialization failure, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return err
}

func lockCategory(tx *gorm.DB, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&cat).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &cat, nil
}

func (s *CategoryStore) checkParent(tx *gorm.DB, parentID uuid.UUID) error {
	parent, err := lockCategory(tx, parentID)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("parent %s does not exist: %w", parentID, ErrInvalidParent)
	}
	if err != nil {
		return err
	}
	if s.RequireActiveParent && !parent.IsActive {
		return fmt.Errorf("parent %s is inactive: %w", parentID, ErrInvalidParent)
	}
	return nil
}

func checkUnique(tx *gorm.DB, column, value string, exclude *uuid.UUID) error {
	q := tx.Model(&models.Category{}).Where(column+" = ?", value)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category with %s %q: %w", column, value, ErrConflict)
	}
	return nil
}

func normalizeSlug(name, given string) (string, error) {
	if given == "" {
		given = slug.Make(name)
	}
	if !utils.IsValidSlug(given) {
		return "", NewFieldError("slug", "Slug may only contain lowercase letters, digits, hyphens and underscores")
	}
	return given, nil
}

// Create inserts a category. Name and slug must be unique; the parent, if
// any, must exist (and be active under RequireActiveParent).
func (s *CategoryStore) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewFieldError("name", "This field is required")
	}
	catSlug, err := normalizeSlug(name, in.Slug)
	if err != nil {
		return nil, err
	}

	cat := models.Category{
		Name:     name,
		Slug:     catSlug,
		ParentID: in.ParentID,
		IsActive: true,
	}
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}

	err = s.withTx(ctx, func(tx *gorm.DB) error {
		cat.ID = uuid.Nil
		if err := checkUnique(tx, "name", name, nil); err != nil {
			return err
		}
		if err := checkUnique(tx, "slug", catSlug, nil); err != nil {
			return err
		}
		if in.ParentID != nil {
			if err := s.checkParent(tx, *in.ParentID); err != nil {
				return err
			}
		}
		if err := tx.Create(&cat).Error; err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("category %q: %w", name, ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Update applies a partial update in one transaction. A parent change goes
// through the same cycle check as Reparent.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, in CategoryUpdate) (*models.Category, error) {
	var result *models.Category
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		cat, err := lockCategory(tx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return NewFieldError("name", "This field may not be blank")
			}
			if err := checkUnique(tx, "name", name, &id); err != nil {
				return err
			}
			cat.Name = name
		}
		if in.Slug != nil {
			catSlug, err := normalizeSlug(cat.Name, *in.Slug)
			if err != nil {
				return err
			}
			if err := checkUnique(tx, "slug", catSlug, &id); err != nil {
				return err
			}
			cat.Slug = catSlug
		}
		if in.IsActive != nil {
			cat.IsActive = *in.IsActive
		}
		if in.ParentSet {
			if err := s.reparent(tx, cat, in.ParentID); err != nil {
				return err
			}
		}

		err = tx.Model(cat).Updates(map[string]interface{}{
			"name":      cat.Name,
			"slug":      cat.Slug,
			"is_active": cat.IsActive,
			"parent_id": cat.ParentID,
		}).Error
		if IsUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", cat.Name, ErrConflict)
		}
		if err != nil {
			return err
		}
		result = cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reparent moves id under newParent, or to the root level when newParent is
// nil. Moving a node under itself or any of its descendants fails with
// ErrCycle.
func (s *CategoryStore) Reparent(ctx context.Context, id uuid.UUID, newParent *uuid.UUID) error {
	return s.withTx(ctx, func(tx *gorm.DB) error {
		cat, err := lockCategory(tx, id)
		if err != nil {
			return err
		}
		if err := s.reparent(tx, cat, newParent); err != nil {
			return err
		}
		return tx.Model(cat).Update("parent_id", cat.ParentID).Error
	})
}

func (s *CategoryStore) reparent(tx *gorm.DB, cat *models.Category, newParent *uuid.UUID) error {
	if newParent == nil {
		cat.ParentID = nil
		return nil
	}
	if *newParent == cat.ID {
		return ErrCycle
	}
	descendants, err := descendantsOf(tx, cat.ID)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d.ID == *newParent {
			return ErrCycle
		}
	}
	if err := s.checkParent(tx, *newParent); err != nil {
		return err
	}

	parentID := *newParent
	cat.ParentID = &parentID
	return nil
}

// Delete removes the category and its whole subtree, deepest first. It is
// rejected with ErrCategoryInUse while any provider references the subtree.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *gorm.DB) error {
		cat, err := lockCategory(tx, id)
		if err != nil {
			return err
		}
		descendants, err := descendantsOf(tx, id)
		if err != nil {
			return err
		}

		subtree := append([]models.Category{*cat}, descendants...)
		ids := make([]uuid.UUID, len(subtree))
		for i, c := range subtree {
			ids[i] = c.ID
		}

		var inUse int64
		if err := tx.Model(&models.ServiceProvider{}).Where("category_id IN ?", ids).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return fmt.Errorf("%d providers: %w", inUse, ErrCategoryInUse)
		}

		// BFS order puts parents before children, so walk it backwards.
		for i := len(ids) - 1; i >= 0; i-- {
			if err := tx.Where("id = ?", ids[i]).Delete(&models.Category{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *CategoryStore) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&cat).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &cat, nil
}

func (s *CategoryStore) GetBySlug(ctx context.Context, catSlug string) (*models.Category, error) {
	var cat models.Category
	if err := s.DB.WithContext(ctx).Where("slug = ?", catSlug).First(&cat).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &cat, nil
}

// Resolve looks a category up by id, falling back to slug.
func (s *CategoryStore) Resolve(ctx context.Context, idOrSlug string) (*models.Category, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.Get(ctx, id)
	}
	return s.GetBySlug(ctx, idOrSlug)
}

func (s *CategoryStore) ListRoots(ctx context.Context) ([]models.Category, error) {
	var roots []models.Category
	err := s.DB.WithContext(ctx).Where("parent_id IS NULL").Order("name ASC").Find(&roots).Error
	return roots, err
}

// ListChildren returns the direct children of id ordered by name.
func (s *CategoryStore) ListChildren(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	var children []models.Category
	err := s.DB.WithContext(ctx).Where("parent_id = ?", id).Order("name ASC").Find(&children).Error
	return children, err
}

// ListDescendants returns every category below id in breadth-first order,
// optionally preceded by id itself.
func (s *CategoryStore) ListDescendants(ctx context.Context, id uuid.UUID, includeSelf bool) ([]models.Category, error) {
	db := s.DB.WithContext(ctx)
	self, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	descendants, err := descendantsOf(db, id)
	if err != nil {
		return nil, err
	}
	if includeSelf {
		return append([]models.Category{*self}, descendants...), nil
	}
	return descendants, nil
}

// descendantsOf walks the subtree one level per query. Seeing a node twice
// means the parent pointers form a cycle.
func descendantsOf(db *gorm.DB, id uuid.UUID) ([]models.Category, error) {
	visited := map[uuid.UUID]bool{id: true}
	frontier := []uuid.UUID{id}
	var out []models.Category

	for len(frontier) > 0 {
		var level []models.Category
		if err := db.Where("parent_id IN ?", frontier).Order("name ASC").Find(&level).Error; err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, c := range level {
			if visited[c.ID] {
				return nil, fmt.Errorf("category %s reached twice: %w", c.ID, ErrCorruptTree)
			}
			visited[c.ID] = true
			out = append(out, c)
			frontier = append(frontier, c.ID)
		}
	}
	return out, nil
}

// Ancestors returns the path from the root down to the parent of id.
func (s *CategoryStore) Ancestors(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	visited := map[uuid.UUID]bool{cat.ID: true}
	var path []models.Category
	for cat.ParentID != nil {
		if visited[*cat.ParentID] {
			return nil, fmt.Errorf("category %s is its own ancestor: %w", *cat.ParentID, ErrCorruptTree)
		}
		parent, err := s.Get(ctx, *cat.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("dangling parent %s: %w", *cat.ParentID, ErrCorruptTree)
			}
			return nil, err
		}
		visited[parent.ID] = true
		path = append(path, *parent)
		cat = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
