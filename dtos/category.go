package dtos

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// CategoryNode is a category rendered with its whole subtree.
type CategoryNode struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	IsActive bool           `json:"is_active"`
	ParentID *uuid.UUID     `json:"parent_id"`
	Children []CategoryNode `json:"children"`
}

// CategoryBreadcrumb is one step of the path from a root to a category.
type CategoryBreadcrumb struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type CreateCategoryRequest struct {
	Name     string     `json:"name" binding:"required,max=255"`
	Slug     string     `json:"slug" binding:"omitempty,max=255"`
	ParentID *uuid.UUID `json:"parent_id"`
	IsActive *bool      `json:"is_active"`
}

// UpdateCategoryRequest is used by both PUT and PATCH. Absent fields are
// left unchanged; "parent_id": null moves the category to the root level.
type UpdateCategoryRequest struct {
	Name     *string      `json:"name" binding:"omitempty,max=255"`
	Slug     *string      `json:"slug" binding:"omitempty,max=255"`
	IsActive *bool        `json:"is_active"`
	ParentID NullableUUID `json:"parent_id"`
}

// NullableUUID records whether a JSON key was present at all, so an explicit
// null can be told apart from an omitted field.
type NullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}
