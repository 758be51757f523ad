package services

import (
	"context"
	"fmt"

	"baggr-backend/dtos"
	"baggr-backend/models"

	"github.com/google/uuid"
)

const DefaultMaxTreeDepth = 50

// CategoryReader is the read side of the category store the serializer
// walks.
type CategoryReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListRoots(ctx context.Context) ([]models.Category, error)
	ListChildren(ctx context.Context, id uuid.UUID) ([]models.Category, error)
}

type SerializeOptions struct {
	// DepthLimit is the deepest level rendered below the starting node.
	// Zero means DefaultMaxTreeDepth.
	DepthLimit int
	// ActiveOnly prunes inactive categories together with their subtrees.
	ActiveOnly bool
}

// TreeSerializer renders category subtrees as nested CategoryNode documents.
// It never writes.
type TreeSerializer struct {
	Store CategoryReader
}

func NewTreeSerializer(store CategoryReader) *TreeSerializer {
	return &TreeSerializer{Store: store}
}

func (o SerializeOptions) limit() int {
	if o.DepthLimit <= 0 {
		return DefaultMaxTreeDepth
	}
	return o.DepthLimit
}

// Serialize renders the subtree rooted at id.
func (t *TreeSerializer) Serialize(ctx context.Context, id uuid.UUID, opts SerializeOptions) (*dtos.CategoryNode, error) {
	cat, err := t.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if opts.ActiveOnly && !cat.IsActive {
		return nil, fmt.Errorf("category %s is inactive: %w", id, ErrNotFound)
	}
	node, err := t.render(ctx, cat, 0, opts)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// SerializeRoots renders every root category with its subtree.
func (t *TreeSerializer) SerializeRoots(ctx context.Context, opts SerializeOptions) ([]dtos.CategoryNode, error) {
	roots, err := t.Store.ListRoots(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]dtos.CategoryNode, 0, len(roots))
	for i := range roots {
		if opts.ActiveOnly && !roots[i].IsActive {
			continue
		}
		node, err := t.render(ctx, &roots[i], 0, opts)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (t *TreeSerializer) render(ctx context.Context, cat *models.Category, depth int, opts SerializeOptions) (dtos.CategoryNode, error) {
	if depth > opts.limit() {
		return dtos.CategoryNode{}, fmt.Errorf("category %s at depth %d: %w", cat.ID, depth, ErrDepthExceeded)
	}
	if err := ctx.Err(); err != nil {
		return dtos.CategoryNode{}, err
	}

	node := dtos.CategoryNode{
		ID:       cat.ID,
		Name:     cat.Name,
		Slug:     cat.Slug,
		IsActive: cat.IsActive,
		ParentID: cat.ParentID,
		Children: []dtos.CategoryNode{},
	}

	children, err := t.Store.ListChildren(ctx, cat.ID)
	if err != nil {
		return dtos.CategoryNode{}, err
	}
	for i := range children {
		if opts.ActiveOnly && !children[i].IsActive {
			continue
		}
		child, err := t.render(ctx, &children[i], depth+1, opts)
		if err != nil {
			return dtos.CategoryNode{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
