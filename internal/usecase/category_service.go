package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// CategoryService implements CategoryUsecase. Every mutation runs in one
// transaction so a concurrent reader never sees it half-applied.
type CategoryService struct {
	tx         repository.TxManager
	categories repository.CategoryRepository
	links      *LinkService
	cache      CategoryCache
}

var _ CategoryUsecase = (*CategoryService)(nil)

func NewCategoryService(tx repository.TxManager, categories repository.CategoryRepository, links *LinkService) *CategoryService {
	return &CategoryService{tx: tx, categories: categories, links: links}
}

// WithCache makes ListAll read through c; mutations invalidate it.
func (s *CategoryService) WithCache(c CategoryCache) *CategoryService {
	s.cache = c
	return s
}

func (s *CategoryService) ListChildren(ctx context.Context, parentID *int64) ([]entity.Category, error) {
	if parentID != nil {
		if _, err := s.categories.GetByID(ctx, *parentID); err != nil {
			return nil, notFound(err, "category", *parentID)
		}
	}
	return s.categories.Children(ctx, parentID)
}

// ListAll returns the flattened tree ordered by level, then name.
func (s *CategoryService) ListAll(ctx context.Context) ([]entity.Category, error) {
	if s.cache == nil {
		return s.categories.List(ctx)
	}
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}
	// a mutation committed while List runs bumps the generation
	gen := s.cache.Generation()
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetIfCurrent(gen, all)
	return all, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (entity.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return entity.Category{}, notFound(err, "category", id)
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entity.Category{}, invalid("name", "name is required")
	}

	var created entity.Category
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		level := entity.LevelTop
		if input.ParentID != nil {
			parent, err := s.categories.GetByID(ctx, *input.ParentID)
			if err != nil {
				return notFound(err, "category", *input.ParentID)
			}
			if parent.Level >= entity.MaxLevel {
				return invalid("parentId", "sub-subcategories cannot have children")
			}
			level = parent.Level + 1
		}
		if err := s.ensureUniqueName(ctx, input.ParentID, name, 0); err != nil {
			return err
		}

		var err error
		created, err = s.categories.Create(ctx, entity.Category{
			Name:              name,
			ParentID:          copyID(input.ParentID),
			Level:             level,
			ProductNamePrefix: normalizePrefix(input.ProductNamePrefix),
		})
		return err
	})
	if err != nil {
		return entity.Category{}, err
	}

	s.invalidate()
	log.Info().Int64("category_id", created.ID).Str("name", created.Name).Int("level", created.Level).Msg("category created")
	return created, nil
}

func (s *CategoryService) Rename(ctx context.Context, id int64, input UpdateCategoryInput) (entity.Category, error) {
	var updated entity.Category
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.categories.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "category", id)
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return invalid("name", "name is required")
			}
			if err := s.ensureUniqueName(ctx, c.ParentID, name, id); err != nil {
				return err
			}
			c.Name = name
		}
		if input.ProductNamePrefix != nil {
			c.ProductNamePrefix = normalizePrefix(input.ProductNamePrefix)
		}
		updated = c
		return s.categories.Update(ctx, c)
	})
	if err != nil {
		return entity.Category{}, err
	}

	s.invalidate()
	log.Info().Int64("category_id", id).Str("name", updated.Name).Msg("category renamed")
	return updated, nil
}

// Move reparents a category, re-levels its whole subtree and realigns the
// products linked into that subtree.
func (s *CategoryService) Move(ctx context.Context, id int64, newParentID *int64) (entity.Category, error) {
	var moved entity.Category
	var realigned int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := loadTree(ctx, s.categories)
		if err != nil {
			return err
		}
		node, ok := t.byID[id]
		if !ok {
			return &NotFoundError{Entity: "category", ID: id}
		}

		newLevel := entity.LevelTop
		if newParentID != nil {
			parent, ok := t.byID[*newParentID]
			if !ok {
				return &NotFoundError{Entity: "category", ID: *newParentID}
			}
			if parent.ID == id || t.isAncestor(id, parent.ID) {
				return invalid("parentId", "a category cannot be moved under itself or its descendants")
			}
			newLevel = parent.Level + 1
		}

		ids, height := t.subtree(id)
		if newLevel+height > entity.MaxLevel {
			return invalid("parentId", "the moved subtree would exceed three levels")
		}
		if err := s.ensureUniqueName(ctx, newParentID, node.Name, id); err != nil {
			return err
		}

		levels := make(map[int64]int, len(ids))
		for _, cid := range ids {
			c := t.byID[cid]
			if cid == id {
				c.ParentID = copyID(newParentID)
				c.Level = newLevel
			} else {
				c.Level = levels[*c.ParentID] + 1
			}
			levels[cid] = c.Level
			if err := s.categories.Update(ctx, c); err != nil {
				return err
			}
			if cid == id {
				moved = c
			}
		}

		realigned, err = s.links.realign(ctx, ids)
		return err
	})
	if err != nil {
		return entity.Category{}, err
	}

	s.invalidate()
	log.Info().Int64("category_id", id).Int("level", moved.Level).Int("products_realigned", realigned).Msg("category moved")
	return moved, nil
}

// Delete removes a category. Children make it fail unless opts.Cascade is
// set, in which case descendants are removed depth-first and every product
// link to a removed node is cleared before its row goes away.
func (s *CategoryService) Delete(ctx context.Context, id int64, opts DeleteOptions) (DeleteSummary, error) {
	var summary DeleteSummary
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		node, err := s.categories.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "category", id)
		}
		children, err := s.categories.Children(ctx, &id)
		if err != nil {
			return err
		}
		if len(children) > 0 && !opts.Cascade {
			return &HasChildrenError{CategoryID: id, ChildCount: len(children)}
		}

		unlinked := make(map[int64]struct{})
		var remove func(c entity.Category) error
		remove = func(c entity.Category) error {
			kids, err := s.categories.Children(ctx, &c.ID)
			if err != nil {
				return err
			}
			for _, k := range kids {
				if err := remove(k); err != nil {
					return err
				}
				summary.CategoriesRemoved++
			}
			productIDs, err := s.links.unlink(ctx, c.ID)
			if err != nil {
				return err
			}
			for _, pid := range productIDs {
				unlinked[pid] = struct{}{}
			}
			return s.categories.Delete(ctx, c.ID)
		}
		if err := remove(node); err != nil {
			return err
		}
		summary.ProductsUnlinked = len(unlinked)
		return nil
	})
	if err != nil {
		return DeleteSummary{}, err
	}

	s.invalidate()
	log.Info().
		Int64("category_id", id).
		Bool("cascade", opts.Cascade).
		Int("categories_removed", summary.CategoriesRemoved).
		Int("products_unlinked", summary.ProductsUnlinked).
		Msg("category deleted")
	return summary, nil
}

// ensureUniqueName rejects a name already used by a sibling other than self.
func (s *CategoryService) ensureUniqueName(ctx context.Context, parentID *int64, name string, self int64) error {
	siblings, err := s.categories.Children(ctx, parentID)
	if err != nil {
		return err
	}
	for _, sib := range siblings {
		if sib.ID != self && strings.EqualFold(sib.Name, name) {
			return invalid("name", "a category named \""+name+"\" already exists at this level")
		}
	}
	return nil
}

func (s *CategoryService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func normalizePrefix(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
