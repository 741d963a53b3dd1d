package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// LinkService maintains the product -> category references.
type LinkService struct {
	tx         repository.TxManager
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

var _ LinkUsecase = (*LinkService)(nil)

func NewLinkService(tx repository.TxManager, categories repository.CategoryRepository, products repository.ProductRepository) *LinkService {
	return &LinkService{tx: tx, categories: categories, products: products}
}

// Unlink clears every product reference to categoryID together with the
// fields that depend on it. Products themselves are never deleted.
func (s *LinkService) Unlink(ctx context.Context, categoryID int64) (int, error) {
	var affected []int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			return notFound(err, "category", categoryID)
		}
		var err error
		affected, err = s.unlink(ctx, categoryID)
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Info().Int64("category_id", categoryID).Int("products", len(affected)).Msg("products unlinked")
	return len(affected), nil
}

// unlink runs inside the caller's transaction and returns the ids of the
// products it changed.
func (s *LinkService) unlink(ctx context.Context, categoryID int64) ([]int64, error) {
	products, err := s.products.ListReferencing(ctx, []int64{categoryID})
	if err != nil {
		return nil, err
	}
	changed := make([]int64, 0, len(products))
	for _, p := range products {
		links := clearReference(p.Links, categoryID)
		if links.Equal(p.Links) {
			continue
		}
		if err := s.products.UpdateLinks(ctx, p.ID, links); err != nil {
			return nil, err
		}
		changed = append(changed, p.ID)
	}
	return changed, nil
}

// MoveProducts reassigns every product filed under categoryID. For a
// top-level source the primary category is rewritten to target, which is
// then required. For a subcategory or sub-subcategory source the field and
// everything below it is cleared, and the primary category is rewritten when
// target is given. Re-running it after success affects no rows.
func (s *LinkService) MoveProducts(ctx context.Context, categoryID int64, target *int64, opts MoveOptions) (int, error) {
	affected := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := loadTree(ctx, s.categories)
		if err != nil {
			return err
		}
		source, ok := t.byID[categoryID]
		if !ok {
			return &NotFoundError{Entity: "category", ID: categoryID}
		}
		if target != nil {
			if *target == categoryID {
				return invalid("targetCategoryId", "target must differ from the source category")
			}
			dst, ok := t.byID[*target]
			if !ok {
				return &NotFoundError{Entity: "category", ID: *target}
			}
			if !dst.IsTopLevel() {
				return invalid("targetCategoryId", "target must be a top-level category")
			}
		} else if source.Level == entity.LevelTop {
			return invalid("targetCategoryId", "target category is required when moving products out of a top-level category")
		}

		products, err := s.products.ListReferencing(ctx, []int64{categoryID})
		if err != nil {
			return err
		}
		for _, p := range products {
			links, ok := moveLinks(p.Links, source, target, opts)
			if !ok {
				continue
			}
			links = t.normalize(links)
			if links.Equal(p.Links) {
				continue
			}
			if err := s.products.UpdateLinks(ctx, p.ID, links); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info().Int64("category_id", categoryID).Int("affected", affected).Msg("products moved")
	return affected, nil
}

// Assign validates a complete link set against the tree and stores it.
func (s *LinkService) Assign(ctx context.Context, productID int64, links entity.CategoryLinks) (entity.Product, error) {
	var updated entity.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return notFound(err, "product", productID)
		}
		t, err := loadTree(ctx, s.categories)
		if err != nil {
			return err
		}
		if err := validateLinks(t, links); err != nil {
			return err
		}
		if err := s.products.UpdateLinks(ctx, productID, links); err != nil {
			return err
		}
		p.Links = links
		updated = p
		return nil
	})
	if err != nil {
		return entity.Product{}, err
	}
	return updated, nil
}

// realign rebuilds the primary path of every product linked into ids after
// the tree above them changed. It runs inside the caller's transaction.
func (s *LinkService) realign(ctx context.Context, ids []int64) (int, error) {
	t, err := loadTree(ctx, s.categories)
	if err != nil {
		return 0, err
	}
	products, err := s.products.ListReferencing(ctx, ids)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, p := range products {
		links := t.rebuildPath(p.Links)
		if links.Equal(p.Links) {
			continue
		}
		if err := s.products.UpdateLinks(ctx, p.ID, links); err != nil {
			return 0, err
		}
		changed++
	}
	return changed, nil
}

// clearReference drops id from links along with its dependent fields.
func clearReference(l entity.CategoryLinks, id int64) entity.CategoryLinks {
	if sameID(l.CategoryID, id) {
		l.CategoryID, l.SubcategoryID, l.SubsubcategoryID = nil, nil, nil
	}
	if sameID(l.SubcategoryID, id) {
		l.SubcategoryID, l.SubsubcategoryID = nil, nil
	}
	if sameID(l.SubsubcategoryID, id) {
		l.SubsubcategoryID = nil
	}
	if sameID(l.CategoryID2, id) {
		l.CategoryID2 = nil
	}
	return l
}

// moveLinks applies MoveProducts to one product. ok is false when the
// product does not reference source at the source's level.
func moveLinks(l entity.CategoryLinks, source entity.Category, target *int64, opts MoveOptions) (entity.CategoryLinks, bool) {
	switch source.Level {
	case entity.LevelTop:
		if !sameID(l.CategoryID, source.ID) {
			return l, false
		}
		l.CategoryID = copyID(target)
		if opts.ClearSubcategory {
			l.SubcategoryID, l.SubsubcategoryID = nil, nil
		}
		if opts.ClearSubsubcategory {
			l.SubsubcategoryID = nil
		}
	case entity.LevelSubcategory:
		if !sameID(l.SubcategoryID, source.ID) {
			return l, false
		}
		l.SubcategoryID, l.SubsubcategoryID = nil, nil
		if target != nil {
			l.CategoryID = copyID(target)
		}
	default:
		if !sameID(l.SubsubcategoryID, source.ID) {
			return l, false
		}
		l.SubsubcategoryID = nil
		if target != nil {
			l.CategoryID = copyID(target)
		}
	}
	return l, true
}

func validateLinks(t tree, l entity.CategoryLinks) error {
	if l.CategoryID != nil {
		c, ok := t.byID[*l.CategoryID]
		if !ok {
			return &NotFoundError{Entity: "category", ID: *l.CategoryID}
		}
		if !c.IsTopLevel() {
			return invalid("categoryId", "must reference a top-level category")
		}
	}
	if l.SubcategoryID != nil {
		c, ok := t.byID[*l.SubcategoryID]
		if !ok {
			return &NotFoundError{Entity: "category", ID: *l.SubcategoryID}
		}
		if l.CategoryID == nil || !c.HasParent(*l.CategoryID) {
			return invalid("subcategoryId", "must be a child of categoryId")
		}
	}
	if l.SubsubcategoryID != nil {
		c, ok := t.byID[*l.SubsubcategoryID]
		if !ok {
			return &NotFoundError{Entity: "category", ID: *l.SubsubcategoryID}
		}
		if l.SubcategoryID == nil || !c.HasParent(*l.SubcategoryID) {
			return invalid("subsubcategoryId", "must be a child of subcategoryId")
		}
	}
	if l.CategoryID2 != nil {
		c, ok := t.byID[*l.CategoryID2]
		if !ok {
			return &NotFoundError{Entity: "category", ID: *l.CategoryID2}
		}
		if !c.IsTopLevel() {
			return invalid("categoryId2", "must reference a top-level category")
		}
	}
	return nil
}
