package entity

import "time"

// Category levels. A category tree is at most three levels deep.
const (
	LevelTop            = 0
	LevelSubcategory    = 1
	LevelSubsubcategory = 2
	MaxLevel            = LevelSubsubcategory
)

// Category is a node of the catalog taxonomy.
type Category struct {
	ID                int64
	Name              string
	ParentID          *int64
	Level             int
	ProductNamePrefix *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool {
	return c.ParentID == nil
}

// HasParent reports whether parentID is the direct parent of c.
func (c Category) HasParent(parentID int64) bool {
	return c.ParentID != nil && *c.ParentID == parentID
}
