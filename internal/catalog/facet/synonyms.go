package facet

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// categorySynonyms maps colloquial singular and plural forms to canonical
// top-level category names.
var categorySynonyms = map[string]string{
	"объектив":      "Lenses",
	"объективы":     "Lenses",
	"линза":         "Lenses",
	"линзы":         "Lenses",
	"lens":          "Lenses",
	"lenses":        "Lenses",
	"фотоаппарат":   "Cameras",
	"фотоаппараты":  "Cameras",
	"камера":        "Cameras",
	"камеры":        "Cameras",
	"camera":        "Cameras",
	"cameras":       "Cameras",
	"видеокамера":   "Video cameras",
	"видеокамеры":   "Video cameras",
	"video camera":  "Video cameras",
	"video cameras": "Video cameras",
	"вспышка":       "Flashes",
	"вспышки":       "Flashes",
	"flash":         "Flashes",
	"flashes":       "Flashes",
	"штатив":        "Tripods",
	"штативы":       "Tripods",
	"tripod":        "Tripods",
	"tripods":       "Tripods",
	"аксессуар":     "Accessories",
	"аксессуары":    "Accessories",
	"accessory":     "Accessories",
	"accessories":   "Accessories",
	"карта памяти":  "Memory cards",
	"карты памяти":  "Memory cards",
	"memory card":   "Memory cards",
	"memory cards":  "Memory cards",
	"сумка":         "Bags",
	"сумки":         "Bags",
	"bag":           "Bags",
	"bags":          "Bags",
	"фильтр":        "Filters",
	"фильтры":       "Filters",
	"filter":        "Filters",
	"filters":       "Filters",
}

// synonymKeys holds the folded dictionary keys, longest first, so that
// "video cameras" wins over a shorter entry sharing its start.
var synonymKeys = func() []string {
	keys := make([]string, 0, len(categorySynonyms))
	for k := range categorySynonyms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

func fold(s string) string {
	return cases.Fold().String(s)
}

// matchSynonym recognizes a category synonym at the start of query, which
// must already be folded and trimmed. The synonym has to end on a word
// boundary. rest is the trimmed remainder of the query.
func matchSynonym(query string) (category, rest string, ok bool) {
	for _, key := range synonymKeys {
		if !strings.HasPrefix(query, key) {
			continue
		}
		tail := query[len(key):]
		if tail != "" {
			r, _ := utf8.DecodeRuneInString(tail)
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		return categorySynonyms[key], strings.TrimSpace(tail), true
	}
	return "", "", false
}
