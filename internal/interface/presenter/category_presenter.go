package presenter

import (
	"time"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

const timeLayout = time.RFC3339

// CategoryPresenter shapes categories and link results for responses.
type CategoryPresenter struct{}

func NewCategoryPresenter() *CategoryPresenter {
	return &CategoryPresenter{}
}

type CategoryResponse struct {
	ID                int64   `json:"categoryId"`
	Name              string  `json:"categoryName"`
	ParentID          *int64  `json:"parentId"`
	Level             int     `json:"level"`
	ProductNamePrefix *string `json:"productNamePrefix,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

type DeleteSummaryResponse struct {
	CategoriesRemoved int    `json:"categoriesRemoved"`
	ProductsUnlinked  int    `json:"productsUnlinked"`
	Message           string `json:"message"`
}

type AffectedResponse struct {
	Affected int    `json:"affected"`
	Message  string `json:"message"`
}

type ProductLinksResponse struct {
	ProductID        int64  `json:"productId"`
	CategoryID       *int64 `json:"categoryId"`
	SubcategoryID    *int64 `json:"subcategoryId"`
	SubsubcategoryID *int64 `json:"subsubcategoryId"`
	CategoryID2      *int64 `json:"categoryId2"`
}

func (p *CategoryPresenter) ToResponse(c entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:                c.ID,
		Name:              c.Name,
		ParentID:          c.ParentID,
		Level:             c.Level,
		ProductNamePrefix: c.ProductNamePrefix,
		CreatedAt:         formatTime(c.CreatedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
}

func (p *CategoryPresenter) ToList(categories []entity.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, p.ToResponse(c))
	}
	return result
}

func (p *CategoryPresenter) ToDeleteSummary(s usecase.DeleteSummary) DeleteSummaryResponse {
	return DeleteSummaryResponse{
		CategoriesRemoved: s.CategoriesRemoved,
		ProductsUnlinked:  s.ProductsUnlinked,
		Message:           plural(s.CategoriesRemoved, "subcategory", "subcategories") + " removed, " + plural(s.ProductsUnlinked, "product", "products") + " unlinked",
	}
}

func (p *CategoryPresenter) ToAffected(n int, verb string) AffectedResponse {
	return AffectedResponse{Affected: n, Message: plural(n, "product", "products") + " " + verb}
}

func (p *CategoryPresenter) ToProductLinks(product entity.Product) ProductLinksResponse {
	return ProductLinksResponse{
		ProductID:        product.ID,
		CategoryID:       product.Links.CategoryID,
		SubcategoryID:    product.Links.SubcategoryID,
		SubsubcategoryID: product.Links.SubsubcategoryID,
		CategoryID2:      product.Links.CategoryID2,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
