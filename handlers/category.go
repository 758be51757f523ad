package handlers

import (
	"net/http"

	"baggr-backend/dtos"
	"baggr-backend/models"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Store    *services.CategoryStore
	Tree     *services.TreeSerializer
	MaxDepth int
}

func NewCategoryHandler(store *services.CategoryStore, maxDepth int) *CategoryHandler {
	return &CategoryHandler{
		Store:    store,
		Tree:     services.NewTreeSerializer(store),
		MaxDepth: maxDepth,
	}
}

func (h *CategoryHandler) serializeOptions(c *gin.Context) services.SerializeOptions {
	return services.SerializeOptions{
		DepthLimit: h.MaxDepth,
		ActiveOnly: c.Query("active") == "true",
	}
}

func categoryNode(cat *models.Category) dtos.CategoryNode {
	return dtos.CategoryNode{
		ID:       cat.ID,
		Name:     cat.Name,
		Slug:     cat.Slug,
		IsActive: cat.IsActive,
		ParentID: cat.ParentID,
		Children: []dtos.CategoryNode{},
	}
}

// GetCategories returns every root category with its full subtree.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	roots, err := h.Tree.SerializeRoots(c.Request.Context(), h.serializeOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roots)
}

// GetCategory returns the subtree rooted at the category named by id or slug.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := h.Store.Resolve(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	node, err := h.Tree.Serialize(ctx, cat.ID, h.serializeOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func (h *CategoryHandler) GetAncestors(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := h.Store.Resolve(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	path, err := h.Store.Ancestors(ctx, cat.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	crumbs := make([]dtos.CategoryBreadcrumb, 0, len(path))
	for _, a := range path {
		crumbs = append(crumbs, dtos.CategoryBreadcrumb{ID: a.ID, Name: a.Name, Slug: a.Slug})
	}
	c.JSON(http.StatusOK, crumbs)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dtos.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cat, err := h.Store.Create(c.Request.Context(), services.CategoryInput{
		Name:     req.Name,
		Slug:     req.Slug,
		ParentID: req.ParentID,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoryNode(cat))
}

// UpdateCategory serves both PUT and PATCH. Only the fields present in the
// body change; a parent_id key moves the category, null moving it to the root.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := h.Store.Resolve(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req dtos.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.Store.Update(ctx, cat.ID, services.CategoryUpdate{
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  req.IsActive,
		ParentSet: req.ParentID.Set,
		ParentID:  req.ParentID.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	node, err := h.Tree.Serialize(ctx, updated.ID, services.SerializeOptions{DepthLimit: h.MaxDepth})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// DeleteCategory removes the category and its whole subtree.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := h.Store.Resolve(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Store.Delete(ctx, cat.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
