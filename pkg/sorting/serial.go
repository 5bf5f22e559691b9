package sorting

import (
	"cmp"
	"slices"

	"github.com/matst80/moment-finder/pkg/types"
)

// SortBySerial orders moments by serial number in place. Equal serials keep
// their collection order.
func SortBySerial(moments []*types.Moment, order types.SortOrder) {
	desc := order.Descending()
	slices.SortStableFunc(moments, func(a, b *types.Moment) int {
		if desc {
			return cmp.Compare(b.SerialNumber, a.SerialNumber)
		}
		return cmp.Compare(a.SerialNumber, b.SerialNumber)
	})
}

type Window struct {
	Page     int `json:"page"`
	Pages    int `json:"pages"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
	Start    int `json:"start"`
	End      int `json:"end"`
}

// Paginate clamps the requested page into range and returns the window of
// the total it covers. An empty result still has one page.
func Paginate(total, page, pageSize int) Window {
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	pages := max(1, (total+pageSize-1)/pageSize)
	page = min(max(page, 1), pages)
	start := min((page-1)*pageSize, total)
	return Window{
		Page:     page,
		Pages:    pages,
		PageSize: pageSize,
		Total:    total,
		Start:    start,
		End:      min(start+pageSize, total),
	}
}

func PageOf[T any](items []T, w Window) []T {
	return items[w.Start:w.End]
}
