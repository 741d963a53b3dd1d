package facet

import (
	"strings"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
)

// Item is the name-resolved projection of a product the filter works on.
// Category fields hold trimmed display names, empty when the link is unset.
type Item struct {
	ID             int64
	Name           string
	DisplayName    string
	Brand          string
	Price          float64
	Rating         *float64
	Condition      string
	Featured       bool
	CreatedAt      time.Time
	Category       string
	Subcategory    string
	Subsubcategory string
	Category2      string
}

// Project resolves the category links of products against categories.
// Links to categories that are not in the list resolve to empty names.
func Project(products []entity.Product, categories []entity.Category) []Item {
	byID := make(map[int64]entity.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	name := func(id *int64) string {
		if id == nil {
			return ""
		}
		return strings.TrimSpace(byID[*id].Name)
	}

	items := make([]Item, 0, len(products))
	for _, p := range products {
		items = append(items, Item{
			ID:             p.ID,
			Name:           p.Name,
			DisplayName:    displayName(p, byID),
			Brand:          strings.TrimSpace(p.Brand),
			Price:          p.Price,
			Rating:         p.Rating,
			Condition:      p.Condition,
			Featured:       p.Featured,
			CreatedAt:      p.CreatedAt,
			Category:       name(p.Links.CategoryID),
			Subcategory:    name(p.Links.SubcategoryID),
			Subsubcategory: name(p.Links.SubsubcategoryID),
			Category2:      name(p.Links.CategoryID2),
		})
	}
	return items
}

// displayName prepends the product name prefix of the most specific linked
// category that has one.
func displayName(p entity.Product, byID map[int64]entity.Category) string {
	for _, id := range []*int64{p.Links.SubsubcategoryID, p.Links.SubcategoryID, p.Links.CategoryID} {
		if id == nil {
			continue
		}
		c, ok := byID[*id]
		if !ok || c.ProductNamePrefix == nil {
			continue
		}
		if prefix := strings.TrimSpace(*c.ProductNamePrefix); prefix != "" {
			return prefix + " " + p.Name
		}
	}
	return p.Name
}

// InCategory reports whether name is the item's primary or secondary
// top-level category.
func (it Item) InCategory(name string) bool {
	return name != "" && (it.Category == name || it.Category2 == name)
}
