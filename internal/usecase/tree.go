package usecase

import (
	"context"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// tree is an in-memory index of the category table, loaded inside the
// transaction that uses it.
type tree struct {
	byID     map[int64]entity.Category
	children map[int64][]int64
}

func loadTree(ctx context.Context, categories repository.CategoryRepository) (tree, error) {
	all, err := categories.List(ctx)
	if err != nil {
		return tree{}, err
	}
	t := tree{
		byID:     make(map[int64]entity.Category, len(all)),
		children: make(map[int64][]int64),
	}
	for _, c := range all {
		t.byID[c.ID] = c
		if c.ParentID != nil {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
		}
	}
	return t, nil
}

// ancestors returns the chain from the top-level category down to id, or nil
// when id or one of its ancestors is missing.
func (t tree) ancestors(id int64) []entity.Category {
	var chain []entity.Category
	seen := make(map[int64]bool)
	cur, ok := t.byID[id]
	for ok {
		if seen[cur.ID] {
			return nil
		}
		seen[cur.ID] = true
		chain = append([]entity.Category{cur}, chain...)
		if cur.ParentID == nil {
			return chain
		}
		cur, ok = t.byID[*cur.ParentID]
	}
	return nil
}

// isAncestor reports whether ancestor lies on the parent chain of id.
func (t tree) isAncestor(ancestor, id int64) bool {
	for _, c := range t.ancestors(id) {
		if c.ID == ancestor {
			return true
		}
	}
	return false
}

// subtree returns id and all its descendants, parents before children,
// along with the depth of the deepest descendant relative to id.
func (t tree) subtree(id int64) ([]int64, int) {
	ids := []int64{id}
	height := 0
	level := []int64{id}
	for depth := 1; len(level) > 0; depth++ {
		var next []int64
		for _, parent := range level {
			next = append(next, t.children[parent]...)
		}
		if len(next) > 0 {
			height = depth
		}
		ids = append(ids, next...)
		level = next
	}
	return ids, height
}

// normalize clears every link that no longer chains to its parent field:
// the primary category and the secondary one must be top-level, the
// subcategory a child of the category, the sub-subcategory a child of the
// subcategory.
func (t tree) normalize(l entity.CategoryLinks) entity.CategoryLinks {
	if l.CategoryID != nil {
		if c, ok := t.byID[*l.CategoryID]; !ok || !c.IsTopLevel() {
			l.CategoryID = nil
		}
	}
	if l.SubcategoryID != nil {
		if c, ok := t.byID[*l.SubcategoryID]; !ok || l.CategoryID == nil || !c.HasParent(*l.CategoryID) {
			l.SubcategoryID = nil
		}
	}
	if l.SubsubcategoryID != nil {
		if c, ok := t.byID[*l.SubsubcategoryID]; !ok || l.SubcategoryID == nil || !c.HasParent(*l.SubcategoryID) {
			l.SubsubcategoryID = nil
		}
	}
	if l.CategoryID2 != nil {
		if c, ok := t.byID[*l.CategoryID2]; !ok || !c.IsTopLevel() {
			l.CategoryID2 = nil
		}
	}
	return l
}

// rebuildPath re-derives the primary path from the deepest primary link.
func (t tree) rebuildPath(l entity.CategoryLinks) entity.CategoryLinks {
	out := entity.CategoryLinks{CategoryID2: copyID(l.CategoryID2)}
	if deepest := l.Deepest(); deepest != nil {
		for _, c := range t.ancestors(*deepest) {
			id := c.ID
			switch c.Level {
			case entity.LevelTop:
				out.CategoryID = &id
			case entity.LevelSubcategory:
				out.SubcategoryID = &id
			case entity.LevelSubsubcategory:
				out.SubsubcategoryID = &id
			}
		}
	}
	return t.normalize(out)
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sameID(p *int64, id int64) bool {
	return p != nil && *p == id
}
