package facet

import (
	"reflect"
	"testing"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
)

func rating(v float64) *float64 { return &v }
func price(v float64) *float64  { return &v }

func ids(items []Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func catalog() []Item {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Item{
		{ID: 1, Name: "FE 50mm F1.8", Brand: "Sony", Price: 45000, Rating: rating(4.5), Category: "Lenses", Subcategory: "Prime", CreatedAt: base},
		{ID: 2, Name: "FE 70-200mm GM", Brand: "Sony", Price: 60000, Rating: rating(5), Category: "Lenses", Subcategory: "Zoom", CreatedAt: base.Add(time.Hour)},
		{ID: 3, Name: "RF 50mm F1.8", Brand: "Canon", Price: 15000, Rating: rating(2.5), Category: "Lenses", Subcategory: "Prime", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Name: "Alpha 7 IV", Brand: "Sony", Price: 200000, Rating: rating(4.8), Category: "Cameras", Subcategory: "Mirrorless", Subsubcategory: "Sony", Featured: true, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 5, Name: "EOS R6", Brand: "Canon", Price: 180000, Category: "Cameras", Subcategory: "Mirrorless", Category2: "Lenses", CreatedAt: base.Add(4 * time.Hour)},
		{ID: 6, Name: "Zenit E", Brand: "Zenit", Price: 3000, Rating: rating(3), Category: "Cameras", Condition: entity.ConditionUsed, CreatedAt: base.Add(5 * time.Hour)},
		{ID: 7, Name: "Lens cap", Brand: "", Price: 500, Rating: rating(0), Category: "Accessories", Condition: entity.ConditionNew, CreatedAt: base.Add(6 * time.Hour)},
	}
}

func TestApply_PriceRangeWithinCategory(t *testing.T) {
	s := State{Categories: []string{"Lenses"}, PriceMin: price(10000), PriceMax: price(50000)}
	got := ids(Apply(catalog(), s))
	// 45000 and 15000 are in range, 60000 and the R6 (secondary Lenses, 180000) are not
	want := []int64{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	onlyTwoLenses := []Item{catalog()[0], catalog()[1]}
	got = ids(Apply(onlyTwoLenses, s))
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("expected only the 45000 lens, got %v", got)
	}
}

func TestApply_PriceBoundsAreInclusive(t *testing.T) {
	got := ids(Apply(catalog(), State{PriceMin: price(45000), PriceMax: price(60000)}))
	if !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("expected inclusive bounds to keep 1 and 2, got %v", got)
	}
}

func TestApply_CategoryMatchesSecondary(t *testing.T) {
	got := ids(Apply(catalog(), State{Categories: []string{"Lenses"}}))
	if !reflect.DeepEqual(got, []int64{1, 2, 3, 5}) {
		t.Fatalf("expected primary and secondary Lenses members, got %v", got)
	}
}

func TestApply_SubFacets(t *testing.T) {
	got := ids(Apply(catalog(), State{Subcategories: []string{"Prime"}}))
	if !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("subcategory facet: got %v", got)
	}
	got = ids(Apply(catalog(), State{Subsubcategories: []string{"Sony"}}))
	if !reflect.DeepEqual(got, []int64{4}) {
		t.Fatalf("sub-subcategory facet: got %v", got)
	}
	got = ids(Apply(catalog(), State{Brands: []string{"Canon"}}))
	if !reflect.DeepEqual(got, []int64{3, 5}) {
		t.Fatalf("brand facet: got %v", got)
	}
}

func TestApply_UsedItemsAreAlwaysExcluded(t *testing.T) {
	for _, s := range []State{{}, {Brands: []string{"Zenit"}}, {Search: "zenit"}} {
		for _, it := range Apply(catalog(), s) {
			if it.Condition == entity.ConditionUsed {
				t.Fatalf("used item %d returned for %+v", it.ID, s)
			}
		}
	}
}

func TestApply_Rating(t *testing.T) {
	got := ids(Apply(catalog(), State{Rating: Rating{Kind: RatingExact, Stars: 4.5}}))
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("exact rating: got %v", got)
	}
	got = ids(Apply(catalog(), State{Rating: Rating{Kind: RatingExact, Stars: 4.509}}))
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("exact rating within tolerance: got %v", got)
	}
	// 3.0 is outside the bucket and unrated items never match
	got = ids(Apply(catalog(), State{Rating: Rating{Kind: RatingBelow3}}))
	if !reflect.DeepEqual(got, []int64{3, 7}) {
		t.Fatalf("below 3 bucket: got %v", got)
	}
}

func TestApply_SynonymSearch(t *testing.T) {
	got := ids(Apply(catalog(), State{Search: "объективы sony"}))
	if !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("expected Sony lenses, got %v", got)
	}

	got = ids(Apply(catalog(), State{Search: "Объектив"}))
	if !reflect.DeepEqual(got, []int64{1, 2, 3, 5}) {
		t.Fatalf("expected every Lenses member, got %v", got)
	}

	got = ids(Apply(catalog(), State{Search: "lenses canon"}))
	if !reflect.DeepEqual(got, []int64{3, 5}) {
		t.Fatalf("expected Canon items in Lenses, got %v", got)
	}
}

func TestApply_SearchRespectsWordBoundary(t *testing.T) {
	// "lens" is read as the Lenses synonym, so the Accessories lens cap
	// does not match.
	if got := Apply(catalog(), State{Search: "lens cap"}); len(got) != 0 {
		t.Fatalf("expected no match, got %v", ids(got))
	}
	// "lensx" is not a synonym, it is plain text
	if got := Apply(catalog(), State{Search: "lensx"}); len(got) != 0 {
		t.Fatalf("expected no match, got %v", ids(got))
	}
	got := ids(Apply(catalog(), State{Search: "ap"}))
	if !reflect.DeepEqual(got, []int64{7}) {
		t.Fatalf("plain substring: got %v", got)
	}
	got = ids(Apply(catalog(), State{Search: "CANON"}))
	if !reflect.DeepEqual(got, []int64{3, 5}) {
		t.Fatalf("case-insensitive brand match: got %v", got)
	}
}

func TestApply_Idempotent(t *testing.T) {
	states := []State{
		{},
		{Categories: []string{"Lenses"}, Sort: SortPriceDesc},
		{Brands: []string{"Sony", "Canon"}, Sort: SortNewest},
		{Search: "объективы sony", Sort: SortRating},
		{Rating: Rating{Kind: RatingBelow3}, PriceMax: price(20000)},
	}
	for _, s := range states {
		once := Apply(catalog(), s)
		twice := Apply(once, s)
		if !reflect.DeepEqual(ids(once), ids(twice)) {
			t.Fatalf("not idempotent for %+v: %v then %v", s, ids(once), ids(twice))
		}
	}
}

func TestApply_MultiSelectIsMonotonic(t *testing.T) {
	narrow := Apply(catalog(), State{Categories: []string{"Lenses"}, Brands: []string{"Sony"}})
	wide := Apply(catalog(), State{Categories: []string{"Lenses", "Cameras"}, Brands: []string{"Sony"}})
	in := make(map[int64]bool)
	for _, it := range wide {
		in[it.ID] = true
	}
	for _, it := range narrow {
		if !in[it.ID] {
			t.Fatalf("item %d matched {A} but not {A,B}", it.ID)
		}
	}
	if len(wide) < len(narrow) {
		t.Fatalf("widening a facet reduced matches")
	}
}

func TestSort(t *testing.T) {
	cases := map[SortOrder][]int64{
		"":            {4, 1, 2, 3, 5, 7},
		SortNewest:    {7, 5, 4, 3, 2, 1},
		SortPriceAsc:  {7, 3, 1, 2, 5, 4},
		SortPriceDesc: {4, 5, 2, 1, 3, 7},
		SortRating:    {2, 4, 1, 3, 7, 5},
	}
	for order, want := range cases {
		got := ids(Apply(catalog(), State{Sort: order}))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("sort %q: expected %v, got %v", order, want, got)
		}
	}
}

func TestProject_ResolvesNamesAndPrefix(t *testing.T) {
	cameras, mirrorless, lenses := int64(1), int64(2), int64(3)
	prefix := "Camera"
	blank := "  "
	categories := []entity.Category{
		{ID: cameras, Name: " Cameras ", ProductNamePrefix: &prefix},
		{ID: mirrorless, Name: "Mirrorless", ParentID: &cameras, Level: 1, ProductNamePrefix: &blank},
		{ID: lenses, Name: "Lenses"},
	}
	products := []entity.Product{
		{ID: 10, Name: "Alpha 7", Brand: "Sony ", Links: entity.CategoryLinks{CategoryID: &cameras, SubcategoryID: &mirrorless, CategoryID2: &lenses}},
		{ID: 11, Name: "Cap", Links: entity.CategoryLinks{CategoryID: &lenses}},
	}
	items := Project(products, categories)
	if items[0].Category != "Cameras" || items[0].Subcategory != "Mirrorless" || items[0].Category2 != "Lenses" {
		t.Fatalf("unexpected names %+v", items[0])
	}
	if items[0].DisplayName != "Camera Alpha 7" || items[0].Brand != "Sony" {
		t.Fatalf("unexpected display name %q / brand %q", items[0].DisplayName, items[0].Brand)
	}
	if items[1].DisplayName != "Cap" || items[1].Subcategory != "" {
		t.Fatalf("unexpected item %+v", items[1])
	}
}

func TestBuildVocabulary(t *testing.T) {
	cameras := int64(1)
	categories := []entity.Category{
		{ID: 1, Name: "Cameras"},
		{ID: 3, Name: "Lenses"},
		{ID: 2, Name: "Mirrorless", ParentID: &cameras, Level: 1},
	}
	v := BuildVocabulary(categories, catalog())
	if !reflect.DeepEqual(v.Categories, []string{"Cameras", "Lenses"}) || !reflect.DeepEqual(v.Subcategories, []string{"Mirrorless"}) {
		t.Fatalf("unexpected categories %+v", v)
	}
	if !reflect.DeepEqual(v.Brands, []string{"Canon", "Sony", "Zenit"}) {
		t.Fatalf("unexpected brands %v", v.Brands)
	}
}
