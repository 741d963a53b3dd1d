package entity

import "time"

// Product conditions. An empty condition is treated as new.
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// CategoryLinks holds the four category references of a product: one primary
// path (category -> subcategory -> sub-subcategory) and an independent
// secondary top-level category.
type CategoryLinks struct {
	CategoryID       *int64
	SubcategoryID    *int64
	SubsubcategoryID *int64
	CategoryID2      *int64
}

// References reports whether any of the four fields points at id.
func (l CategoryLinks) References(id int64) bool {
	return eq(l.CategoryID, id) || eq(l.SubcategoryID, id) || eq(l.SubsubcategoryID, id) || eq(l.CategoryID2, id)
}

// Equal reports whether both link sets point at the same categories.
func (l CategoryLinks) Equal(o CategoryLinks) bool {
	return same(l.CategoryID, o.CategoryID) &&
		same(l.SubcategoryID, o.SubcategoryID) &&
		same(l.SubsubcategoryID, o.SubsubcategoryID) &&
		same(l.CategoryID2, o.CategoryID2)
}

// Deepest returns the most specific reference on the primary path.
func (l CategoryLinks) Deepest() *int64 {
	switch {
	case l.SubsubcategoryID != nil:
		return l.SubsubcategoryID
	case l.SubcategoryID != nil:
		return l.SubcategoryID
	default:
		return l.CategoryID
	}
}

// Product is a catalog item together with its category links.
type Product struct {
	ID        int64
	Name      string
	Brand     string
	Price     float64
	Rating    *float64
	Condition string
	Featured  bool
	Links     CategoryLinks
	CreatedAt time.Time
	UpdatedAt time.Time
}

func eq(p *int64, id int64) bool {
	return p != nil && *p == id
}

func same(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
