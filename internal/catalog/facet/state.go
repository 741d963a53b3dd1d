package facet

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidState is wrapped by every State validation failure.
var ErrInvalidState = errors.New("invalid filter state")

type RatingKind string

const (
	RatingAny    RatingKind = ""
	RatingExact  RatingKind = "exact"
	RatingBelow3 RatingKind = "below3"
)

// Rating selects either one star value or the "less than 3" bucket.
type Rating struct {
	Kind  RatingKind `json:"kind,omitempty"`
	Stars float64    `json:"stars,omitempty"`
}

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
)

// State is the complete set of facet selections plus search and sort.
// Empty sets mean "no constraint".
type State struct {
	Categories       []string  `json:"categories,omitempty"`
	Subcategories    []string  `json:"subcategories,omitempty"`
	Subsubcategories []string  `json:"subsubcategories,omitempty"`
	Brands           []string  `json:"brands,omitempty"`
	PriceMin         *float64  `json:"priceMin,omitempty"`
	PriceMax         *float64  `json:"priceMax,omitempty"`
	Rating           Rating    `json:"rating,omitzero"`
	Search           string    `json:"search,omitempty"`
	Sort             SortOrder `json:"sort,omitempty"`
}

// Normalize returns s with trimmed, de-duplicated and sorted sets and a
// trimmed search string. Equal selections normalize to equal values.
func (s State) Normalize() State {
	out := State{
		Categories:       normalizeSet(s.Categories),
		Subcategories:    normalizeSet(s.Subcategories),
		Subsubcategories: normalizeSet(s.Subsubcategories),
		Brands:           normalizeSet(s.Brands),
		PriceMin:         copyFloat(s.PriceMin),
		PriceMax:         copyFloat(s.PriceMax),
		Rating:           s.Rating,
		Search:           strings.TrimSpace(s.Search),
		Sort:             s.Sort,
	}
	if out.Rating.Kind != RatingExact {
		out.Rating.Stars = 0
	}
	if out.Sort == SortFeatured {
		out.Sort = ""
	}
	return out
}

// Validate checks the enumerated fields.
func (s State) Validate() error {
	switch s.Rating.Kind {
	case RatingAny, RatingBelow3:
	case RatingExact:
		if s.Rating.Stars < 0 || s.Rating.Stars > 5 {
			return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidState)
		}
	default:
		return fmt.Errorf("%w: unknown rating kind %q", ErrInvalidState, s.Rating.Kind)
	}
	switch s.Sort {
	case "", SortFeatured, SortNewest, SortPriceAsc, SortPriceDesc, SortRating:
	default:
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidState, s.Sort)
	}
	if s.PriceMin != nil && *s.PriceMin < 0 {
		return fmt.Errorf("%w: priceMin must not be negative", ErrInvalidState)
	}
	if s.PriceMax != nil && *s.PriceMax < 0 {
		return fmt.Errorf("%w: priceMax must not be negative", ErrInvalidState)
	}
	return nil
}

// IsEmpty reports whether s constrains nothing.
func (s State) IsEmpty() bool {
	return s.Key() == State{}.Key()
}

// Key is the canonical serialization of s. Two states with the same
// selections have the same key.
func (s State) Key() string {
	b, err := json.Marshal(s.Normalize())
	if err != nil {
		// State holds only strings and numbers.
		panic(err)
	}
	return string(b)
}

// ParseState decodes a serialized state and validates it.
func ParseState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode filter state: %w", err)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s.Normalize(), nil
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
