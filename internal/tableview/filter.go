package tableview

import (
	"strings"

	"golang.org/x/text/cases"
)

// recompute derives visible from source: filter, then sort.
func (v *View[R]) recompute() {
	fold := cases.Fold()
	needle := fold.String(v.search)

	out := make([]R, 0, len(v.source))
	for _, r := range v.source {
		if v.matches(r, needle, fold) {
			out = append(out, r)
		}
	}
	if v.sortKey != "" {
		if col, ok := v.schema.Column(v.sortKey); ok {
			sortRows(out, col, v.sortDir)
		}
	}
	v.visible = out
}

func (v *View[R]) matches(r R, needle string, fold cases.Caser) bool {
	if needle != "" && !v.searchMatches(r, needle, fold) {
		return false
	}
	for key, value := range v.filters {
		f, ok := v.schema.Filter(key)
		if !ok || f.Match == nil {
			continue
		}
		if !f.Match(r, value) {
			return false
		}
	}
	return true
}

func (v *View[R]) searchMatches(r R, needle string, fold cases.Caser) bool {
	for _, c := range v.schema.Columns {
		if !c.Searchable {
			continue
		}
		if strings.Contains(fold.String(c.Text(r)), needle) {
			return true
		}
	}
	return false
}
