package facet

import "sync"

// DefaultPageSize is used when a non-positive page size is configured.
const DefaultPageSize = 12

// Page is one slice of an already filtered and sorted result.
type Page struct {
	Items      []Item
	Number     int
	Size       int
	Total      int
	TotalPages int
}

// Paginate cuts page number out of items. Numbers outside [1, TotalPages]
// are clamped; an empty result has one empty page.
func Paginate(items []Item, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page{
		Items:      items[start:end],
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: pages,
	}
}

// View keeps the filtered result of one browsing session and pages through
// it. Changing the state re-runs the filter and resets to the first page;
// changing the page only re-slices the cached result.
type View struct {
	mu          sync.Mutex
	pageSize    int
	items       []Item
	state       State
	key         string
	result      []Item
	page        int
	evaluations int
}

func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{pageSize: pageSize, page: 1, key: State{}.Key()}
}

// SetItems replaces the product set and re-evaluates the current state.
// The page number is kept and clamped to the new result.
func (v *View) SetItems(items []Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = items
	v.evaluate()
}

// SetState applies s when its key differs from the current one. It reports
// whether the result was re-evaluated.
func (v *View) SetState(s State) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	key := s.Key()
	if key == v.key {
		return false
	}
	v.state = s.Normalize()
	v.key = key
	v.page = 1
	v.evaluate()
	return true
}

// Refresh replaces the product set and applies s with a single evaluation.
// The page resets to 1 when the state key changed and is clamped otherwise.
func (v *View) Refresh(items []Item, s State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = items
	if key := s.Key(); key != v.key {
		v.state = s.Normalize()
		v.key = key
		v.page = 1
	}
	v.evaluate()
}

func (v *View) SetPage(number int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = Paginate(v.result, number, v.pageSize).Number
}

func (v *View) Page() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Paginate(v.result, v.page, v.pageSize)
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *View) evaluate() {
	v.result = Apply(v.items, v.state)
	v.evaluations++
	v.page = Paginate(v.result, v.page, v.pageSize).Number
}
