package tableview

import (
	"cmp"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// missing sorts below every real number.
var missing = math.Inf(-1)

type sortItem[R any] struct {
	row  R
	num  float64
	text string
}

// sortRows stable-sorts rows by col. Desc reverses the comparator, so
// equal keys keep their relative order in both directions.
func sortRows[R any](rows []R, col Column[R], dir Direction) {
	fold := cases.Fold()
	items := make([]sortItem[R], len(rows))
	for i, r := range rows {
		items[i] = keyOf(r, col, fold)
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := compareItems(col.Kind, items[i], items[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})

	for i := range items {
		rows[i] = items[i].row
	}
}

func keyOf[R any](r R, col Column[R], fold cases.Caser) sortItem[R] {
	it := sortItem[R]{row: r}
	switch col.Kind {
	case KindNumber:
		it.num = missing
		if col.Number != nil {
			if n, ok := col.Number(r); ok {
				it.num = n
			}
		}
	case KindBool:
		if col.Bool != nil && col.Bool(r) {
			it.num = 1
		}
	default:
		it.text = fold.String(col.Text(r))
	}
	return it
}

func compareItems[R any](kind Kind, a, b sortItem[R]) int {
	switch kind {
	case KindNumber, KindBool:
		return cmp.Compare(a.num, b.num)
	default:
		return strings.Compare(a.text, b.text)
	}
}
