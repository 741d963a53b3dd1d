package presenter

import (
	"strconv"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
)

// CatalogPresenter shapes catalog pages, facet vocabularies and filter
// states for responses.
type CatalogPresenter struct{}

func NewCatalogPresenter() *CatalogPresenter {
	return &CatalogPresenter{}
}

type CatalogItemResponse struct {
	ID             int64    `json:"productId"`
	Name           string   `json:"productName"`
	DisplayName    string   `json:"displayName"`
	Brand          string   `json:"brand,omitempty"`
	Price          float64  `json:"price"`
	Rating         *float64 `json:"rating,omitempty"`
	Condition      string   `json:"condition,omitempty"`
	Featured       bool     `json:"featured"`
	Category       string   `json:"category,omitempty"`
	Subcategory    string   `json:"subcategory,omitempty"`
	Subsubcategory string   `json:"subsubcategory,omitempty"`
	Category2      string   `json:"category2,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
}

type CatalogPageResponse struct {
	Items      []CatalogItemResponse `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"totalPages"`
	Filters    facet.State           `json:"filters"`
}

type VocabularyResponse struct {
	Categories       []string `json:"categories"`
	Subcategories    []string `json:"subcategories"`
	Subsubcategories []string `json:"subsubcategories"`
	Brands           []string `json:"brands"`
}

type FiltersResponse struct {
	Filters facet.State `json:"filters"`
	Phase   string      `json:"phase"`
	Rule    string      `json:"rule,omitempty"`
	Written *bool       `json:"written,omitempty"`
}

func (p *CatalogPresenter) ToPage(page facet.Page, filters facet.State) CatalogPageResponse {
	items := make([]CatalogItemResponse, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, CatalogItemResponse{
			ID:             it.ID,
			Name:           it.Name,
			DisplayName:    it.DisplayName,
			Brand:          it.Brand,
			Price:          it.Price,
			Rating:         it.Rating,
			Condition:      it.Condition,
			Featured:       it.Featured,
			Category:       it.Category,
			Subcategory:    it.Subcategory,
			Subsubcategory: it.Subsubcategory,
			Category2:      it.Category2,
			CreatedAt:      formatTime(it.CreatedAt),
		})
	}
	return CatalogPageResponse{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Filters:    filters,
	}
}

func (p *CatalogPresenter) ToVocabulary(v facet.Vocabulary) VocabularyResponse {
	return VocabularyResponse{
		Categories:       nonNil(v.Categories),
		Subcategories:    nonNil(v.Subcategories),
		Subsubcategories: nonNil(v.Subsubcategories),
		Brands:           nonNil(v.Brands),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
