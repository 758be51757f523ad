package services

import (
	"context"
	"errors"
	"testing"

	"baggr-backend/dtos"
	"baggr-backend/models"

	"github.com/google/uuid"
)

func depthOf(node dtos.CategoryNode) int {
	deepest := 0
	for _, c := range node.Children {
		if d := depthOf(c) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

func TestSerializeMirrorsListChildrenOrder(t *testing.T) {
	store := NewCategoryStore(freshDB(), true)
	ctx := context.Background()
	root := mustCreate(t, store, "Shops", nil)
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		mustCreate(t, store, name, &root.ID)
	}

	node, err := NewTreeSerializer(store).Serialize(ctx, root.ID, SerializeOptions{})
	if err != nil {
		t.Fatal(err)
	}

	children, _ := store.ListChildren(ctx, root.ID)
	if len(node.Children) != len(children) {
		t.Fatalf("expected %d children, got %d", len(children), len(node.Children))
	}
	for i := range children {
		if node.Children[i].ID != children[i].ID {
			t.Errorf("position %d: expected %s, got %s", i, children[i].Name, node.Children[i].Name)
		}
	}
	if node.Children[0].Name != "Alpha" {
		t.Errorf("expected Alpha first, got %s", node.Children[0].Name)
	}
}

func TestSerializeDepthMatchesTree(t *testing.T) {
	store := NewCategoryStore(freshDB(), true)
	root, _, _, delta := sampleTree(t, store)

	node, err := NewTreeSerializer(store).Serialize(context.Background(), root.ID, SerializeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := depthOf(*node); got != 2 {
		t.Errorf("expected depth 2, got %d", got)
	}

	leaf, err := NewTreeSerializer(store).Serialize(context.Background(), delta.ID, SerializeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if leaf.Children == nil || len(leaf.Children) != 0 {
		t.Error("expected leaf to render an empty children list")
	}
	if leaf.ParentID == nil {
		t.Error("expected parent_id on a non-root node")
	}
}

func TestSerializeDepthLimit(t *testing.T) {
	store := NewCategoryStore(freshDB(), true)
	ctx := context.Background()

	// chain of four levels: depths 0..3
	top := mustCreate(t, store, "L0", nil)
	parent := top
	for _, name := range []string{"L1", "L2", "L3"} {
		parent = mustCreate(t, store, name, &parent.ID)
	}

	serializer := NewTreeSerializer(store)
	if _, err := serializer.Serialize(ctx, top.ID, SerializeOptions{DepthLimit: 2}); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded with limit 2, got %v", err)
	}
	if _, err := serializer.Serialize(ctx, top.ID, SerializeOptions{DepthLimit: 3}); err != nil {
		t.Errorf("expected limit 3 to fit, got %v", err)
	}
}

func TestSerializeCycleHitsDepthLimit(t *testing.T) {
	db := freshDB()
	store := NewCategoryStore(db, true)
	a := mustCreate(t, store, "A", nil)
	b := mustCreate(t, store, "B", &a.ID)
	db.Exec(`UPDATE categories SET parent_id = ? WHERE id = ?`, b.ID, a.ID)

	_, err := NewTreeSerializer(store).Serialize(context.Background(), a.ID, SerializeOptions{DepthLimit: 10})
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestSerializeActiveOnlyPrunesSubtrees(t *testing.T) {
	store := NewCategoryStore(freshDB(), false)
	ctx := context.Background()
	root, _, beta, _ := sampleTree(t, store)

	inactive := false
	if _, err := store.Update(ctx, beta.ID, CategoryUpdate{IsActive: &inactive}); err != nil {
		t.Fatal(err)
	}

	serializer := NewTreeSerializer(store)
	all, _ := serializer.Serialize(ctx, root.ID, SerializeOptions{})
	if len(all.Children) != 2 {
		t.Errorf("expected 2 children without filtering, got %d", len(all.Children))
	}

	active, err := serializer.Serialize(ctx, root.ID, SerializeOptions{ActiveOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(active.Children) != 1 || active.Children[0].Name != "Alpha" {
		t.Errorf("expected only Alpha, got %+v", active.Children)
	}

	if _, err := serializer.Serialize(ctx, beta.ID, SerializeOptions{ActiveOnly: true}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected inactive start node to be not found, got %v", err)
	}
}

func TestSerializeRoots(t *testing.T) {
	store := NewCategoryStore(freshDB(), true)
	ctx := context.Background()
	sampleTree(t, store)
	inactive := false
	if _, err := store.Create(ctx, CategoryInput{Name: "Hidden", IsActive: &inactive}); err != nil {
		t.Fatal(err)
	}

	serializer := NewTreeSerializer(store)
	roots, err := serializer.SerializeRoots(ctx, SerializeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 2 || roots[0].Name != "Hidden" || roots[1].Name != "Root" {
		t.Errorf("unexpected roots %+v", roots)
	}

	active, _ := serializer.SerializeRoots(ctx, SerializeOptions{ActiveOnly: true})
	if len(active) != 1 || len(active[0].Children) != 2 {
		t.Errorf("expected one active root with two children, got %+v", active)
	}
}

func TestSerializeNotFound(t *testing.T) {
	store := NewCategoryStore(freshDB(), true)

	_, err := NewTreeSerializer(store).Serialize(context.Background(), uuid.New(), SerializeOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// countingReader proves the serializer only reads.
type countingReader struct {
	CategoryReader
	gets, lists int
}

func (r *countingReader) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.gets++
	return r.CategoryReader.Get(ctx, id)
}

func (r *countingReader) ListChildren(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	r.lists++
	return r.CategoryReader.ListChildren(ctx, id)
}

func TestSerializeVisitsEveryNodeOnce(t *testing.T) {
	store := NewCategoryStore(freshDB(), true)
	root, _, _, _ := sampleTree(t, store)
	reader := &countingReader{CategoryReader: store}

	if _, err := NewTreeSerializer(reader).Serialize(context.Background(), root.ID, SerializeOptions{}); err != nil {
		t.Fatal(err)
	}
	if reader.gets != 1 || reader.lists != 4 {
		t.Errorf("expected 1 get and 4 child listings, got %d and %d", reader.gets, reader.lists)
	}
}
