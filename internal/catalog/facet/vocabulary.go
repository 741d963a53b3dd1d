package facet

import (
	"sort"
	"strings"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
)

// Vocabulary lists the values each facet can take.
type Vocabulary struct {
	Categories       []string
	Subcategories    []string
	Subsubcategories []string
	Brands           []string
}

// BuildVocabulary collects category names per level, keeping the order of
// categories (level, then name), and the sorted distinct brands of items.
func BuildVocabulary(categories []entity.Category, items []Item) Vocabulary {
	var v Vocabulary
	seen := make(map[int]map[string]bool, 3)
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		if seen[c.Level] == nil {
			seen[c.Level] = make(map[string]bool)
		}
		if seen[c.Level][name] {
			continue
		}
		seen[c.Level][name] = true
		switch c.Level {
		case entity.LevelTop:
			v.Categories = append(v.Categories, name)
		case entity.LevelSubcategory:
			v.Subcategories = append(v.Subcategories, name)
		case entity.LevelSubsubcategory:
			v.Subsubcategories = append(v.Subsubcategories, name)
		}
	}

	brands := make(map[string]bool)
	for _, it := range items {
		if it.Brand != "" && !brands[it.Brand] {
			brands[it.Brand] = true
			v.Brands = append(v.Brands, it.Brand)
		}
	}
	sort.Strings(v.Brands)
	return v
}
