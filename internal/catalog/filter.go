package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the atlas ordering.
type SortKey string

const (
	SortNone         SortKey = ""
	SortDistanceAsc  SortKey = "distance-asc"
	SortDistanceDesc SortKey = "distance-desc"
	SortNameAsc      SortKey = "name-asc"
)

// SortKeys is the cycle order used by the atlas view.
var SortKeys = []SortKey{SortNone, SortDistanceAsc, SortDistanceDesc, SortNameAsc}

// Label returns a short human label for the key.
func (k SortKey) Label() string {
	switch k {
	case SortDistanceAsc:
		return "distance ↑"
	case SortDistanceDesc:
		return "distance ↓"
	case SortNameAsc:
		return "name A-Z"
	default:
		return "catalog order"
	}
}

// TypeAll disables type filtering.
const TypeAll = "all"

// Filter holds the atlas controls.
type Filter struct {
	Type  string
	Query string
	Sort  SortKey
	// Lang drives locale-aware name comparison. Defaults to English.
	Lang language.Tag
}

// IsZero reports whether the filter leaves the catalog untouched.
func (f Filter) IsZero() bool {
	return (f.Type == "" || f.Type == TypeAll) && strings.TrimSpace(f.Query) == "" && f.Sort == SortNone
}

// Apply returns a filtered and sorted copy of records. The input slice is
// not modified.
func Apply(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	q := strings.ToLower(strings.TrimSpace(f.Query))

	for _, r := range records {
		if f.Type != "" && f.Type != TypeAll && r.Type != f.Type {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) {
			continue
		}
		out = append(out, r)
	}

	switch f.Sort {
	case SortDistanceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	case SortDistanceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Distance > out[j].Distance })
	case SortNameAsc:
		lang := f.Lang
		if lang == language.Und {
			lang = language.English
		}
		c := collate.New(lang, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	}

	return out
}

// Types returns the distinct record types in first-seen order.
func Types(records []Record) []string {
	var types []string
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Type == "" || seen[r.Type] {
			continue
		}
		seen[r.Type] = true
		types = append(types, r.Type)
	}
	return types
}

// Preview returns at most n leading records.
func Preview(records []Record, n int) []Record {
	if n < 0 {
		n = 0
	}
	if len(records) < n {
		n = len(records)
	}
	out := make([]Record, n)
	copy(out, records[:n])
	return out
}
