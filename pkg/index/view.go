package index

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"slices"
	"strconv"
	"sync"

	"github.com/matst80/moment-finder/pkg/facet"
	"github.com/matst80/moment-finder/pkg/sorting"
	"github.com/matst80/moment-finder/pkg/types"
	"github.com/zeebo/xxh3"
)

// View is everything a client renders for one filter state: the sorted
// page of eligible moments, the window and the cascading facet options.
type View struct {
	Account   string          `json:"account"`
	Version   uint64          `json:"version"`
	SortOrder types.SortOrder `json:"sort"`
	Window    sorting.Window  `json:"window"`
	Moments   []*types.Moment `json:"moments"`
	Facets    []facet.Options `json:"facets"`
	Series    []int           `json:"availableSeries"`
	Tiers     []string        `json:"availableTiers"`
	eligible  []*types.Moment
	result    *Result
}

// Eligible returns every eligible moment in sort order.
func (v *View) Eligible() []*types.Moment {
	return v.eligible
}

func (v *View) Result() *Result {
	return v.result
}

func (v *View) Facet(id types.FacetId) (facet.Options, bool) {
	idx := slices.IndexFunc(v.Facets, func(o facet.Options) bool {
		return o.Facet == id
	})
	if idx < 0 {
		return facet.Options{}, false
	}
	return v.Facets[idx], true
}

func BuildView(ctx context.Context, c *Collection, f *types.FilterState, fc *types.FilterContext) *View {
	r := Evaluate(ctx, c, f, fc)
	eligible := r.EligibleMoments()
	order := fc.EffectiveSortOrder(f)
	sorting.SortBySerial(eligible, order)
	w := sorting.Paginate(len(eligible), f.CurrentPage, fc.EffectivePageSize())

	v := &View{
		SortOrder: order,
		Window:    w,
		Moments:   sorting.PageOf(eligible, w),
		Facets:    r.AllOptions(),
		eligible:  eligible,
		result:    r,
	}
	if c != nil {
		v.Account = c.Account
		v.Version = c.Version
		v.Series = facet.AvailableSeries(c.Moments, fc)
		v.Tiers = facet.AvailableTiers(c.Moments, fc)
	}
	return v
}

// StateKey hashes everything besides the collection an evaluation depends
// on.
func StateKey(f *types.FilterState, fc *types.FilterContext) uint64 {
	buf, _ := json.Marshal(f)
	if fc != nil {
		buf = appendSet(buf, 'x', fc.ExcludeIds)
		buf = appendSet(buf, 's', fc.SelectedIds)
		buf = appendIntSet(buf, 'o', fc.SafetyOverrides)
		buf = appendSet(buf, 'r', fc.LeagueRoster)
		buf = strconv.AppendBool(buf, fc.ShowLocked)
		buf = strconv.AppendBool(buf, fc.AllowAllTiers)
		buf = append(buf, fc.ForceSortOrder...)
		buf = binary.AppendVarint(buf, int64(fc.PageSize))
		for _, s := range fc.ForcedSeries {
			buf = binary.AppendVarint(buf, int64(s))
		}
	}
	return xxh3.Hash(buf)
}

func appendSet(buf []byte, tag byte, set map[string]struct{}) []byte {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	buf = append(buf, tag)
	for _, k := range keys {
		buf = append(buf, k...)
		buf = append(buf, 0)
	}
	return buf
}

func appendIntSet(buf []byte, tag byte, set map[int]struct{}) []byte {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	buf = append(buf, tag)
	for _, k := range keys {
		buf = binary.AppendVarint(buf, int64(k))
	}
	return buf
}

// Memo keeps the most recent view per key so repeated reads of an unchanged
// state and snapshot skip the evaluation.
type Memo struct {
	mu      sync.Mutex
	size    int
	entries []memoEntry
}

type memoEntry struct {
	version uint64
	key     uint64
	view    *View
}

func NewMemo(size int) *Memo {
	return &Memo{size: max(size, 1)}
}

func (m *Memo) View(ctx context.Context, c *Collection, f *types.FilterState, fc *types.FilterContext) *View {
	key := StateKey(f, fc)
	var version uint64
	if c != nil {
		version = c.Version
	}
	m.mu.Lock()
	for i, e := range m.entries {
		if e.key == key && e.version == version {
			// move to front
			copy(m.entries[1:i+1], m.entries[:i])
			m.entries[0] = e
			m.mu.Unlock()
			memoHits.Inc()
			return e.view
		}
	}
	m.mu.Unlock()

	v := BuildView(ctx, c, f, fc)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = slices.Insert(m.entries, 0, memoEntry{version: version, key: key, view: v})
	if len(m.entries) > m.size {
		m.entries = m.entries[:m.size]
	}
	return v
}
