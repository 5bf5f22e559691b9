package facet

import (
	"slices"

	"github.com/matst80/moment-finder/pkg/types"
)

func visible(m *types.Moment, ctx *types.FilterContext) bool {
	return m != nil && (!m.IsLocked || (ctx != nil && ctx.ShowLocked))
}

// AvailableSeries lists the series naturally present in a collection plus
// the forced series of the scope, ascending.
func AvailableSeries(moments []*types.Moment, ctx *types.FilterContext) []int {
	seen := make(map[int]struct{})
	for _, m := range moments {
		if visible(m, ctx) {
			seen[m.Series] = struct{}{}
		}
	}
	if ctx != nil {
		for _, s := range ctx.ForcedSeries {
			seen[s] = struct{}{}
		}
	}
	ret := make([]int, 0, len(seen))
	for s := range seen {
		ret = append(ret, s)
	}
	slices.Sort(ret)
	return ret
}

// AvailableTiers lists the allowed tiers present in a collection in rank
// order. A collection without any allowed tier offers the whole allowed set.
func AvailableTiers(moments []*types.Moment, ctx *types.FilterContext) []string {
	allowed := types.AllowedTiers(ctx != nil && ctx.AllowAllTiers)
	seen := make(map[string]struct{})
	for _, m := range moments {
		if visible(m, ctx) {
			seen[m.NormalizedTier()] = struct{}{}
		}
	}
	ret := make([]string, 0, len(allowed))
	for _, t := range allowed {
		if _, ok := seen[t]; ok {
			ret = append(ret, t)
		}
	}
	if len(ret) == 0 {
		return allowed
	}
	return ret
}
