package facet

import (
	"math"
	"sort"
	"strings"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
)

const ratingTolerance = 0.01

// Apply returns the items matching s, sorted by s.Sort. items is not
// modified.
func Apply(items []Item, s State) []Item {
	return Sort(Filter(items, s), s.Sort)
}

// Filter returns the items matching every facet of s, in input order.
func Filter(items []Item, s State) []Item {
	m := newMatcher(s)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if m.match(it) {
			out = append(out, it)
		}
	}
	return out
}

type matcher struct {
	categories       map[string]struct{}
	subcategories    map[string]struct{}
	subsubcategories map[string]struct{}
	brands           map[string]struct{}
	priceMin         *float64
	priceMax         *float64
	rating           Rating

	// search
	searchCategory string
	searchText     string
}

func newMatcher(s State) matcher {
	s = s.Normalize()
	m := matcher{
		categories:       toSet(s.Categories),
		subcategories:    toSet(s.Subcategories),
		subsubcategories: toSet(s.Subsubcategories),
		brands:           toSet(s.Brands),
		priceMin:         s.PriceMin,
		priceMax:         s.PriceMax,
		rating:           s.Rating,
	}
	if q := fold(s.Search); q != "" {
		if category, rest, ok := matchSynonym(q); ok {
			m.searchCategory = category
			m.searchText = rest
		} else {
			m.searchText = q
		}
	}
	return m
}

func (m matcher) match(it Item) bool {
	if len(m.categories) > 0 && !inSet(m.categories, it.Category) && !inSet(m.categories, it.Category2) {
		return false
	}
	if len(m.subcategories) > 0 && !inSet(m.subcategories, it.Subcategory) {
		return false
	}
	if len(m.subsubcategories) > 0 && !inSet(m.subsubcategories, it.Subsubcategory) {
		return false
	}
	if len(m.brands) > 0 && !inSet(m.brands, it.Brand) {
		return false
	}
	if it.Condition == entity.ConditionUsed {
		return false
	}
	if !m.matchRating(it.Rating) {
		return false
	}
	if m.priceMin != nil && it.Price < *m.priceMin {
		return false
	}
	if m.priceMax != nil && it.Price > *m.priceMax {
		return false
	}
	return m.matchSearch(it)
}

func (m matcher) matchRating(r *float64) bool {
	switch m.rating.Kind {
	case RatingExact:
		return r != nil && math.Abs(*r-m.rating.Stars) <= ratingTolerance
	case RatingBelow3:
		return r != nil && *r >= 0 && *r < 3
	default:
		return true
	}
}

func (m matcher) matchSearch(it Item) bool {
	if m.searchCategory != "" && !strings.EqualFold(it.Category, m.searchCategory) && !strings.EqualFold(it.Category2, m.searchCategory) {
		return false
	}
	if m.searchText == "" {
		return true
	}
	return strings.Contains(fold(it.Name), m.searchText) || strings.Contains(fold(it.Brand), m.searchText)
}

// Sort orders items by order, breaking ties by id so the result is
// deterministic. The empty order sorts featured items first.
func Sort(items []Item, order SortOrder) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	var less func(a, b Item) bool
	switch order {
	case SortNewest:
		less = func(a, b Item) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortPriceAsc:
		less = func(a, b Item) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Item) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b Item) bool { return ratingValue(a.Rating) > ratingValue(b.Rating) }
	default:
		less = func(a, b Item) bool { return a.Featured && !b.Featured }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// unrated items sort after every rated one
func ratingValue(r *float64) float64 {
	if r == nil {
		return -1
	}
	return *r
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, v string) bool {
	if v == "" {
		return false
	}
	_, ok := set[v]
	return ok
}
