package facet

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matst80/moment-finder/pkg/types"
)

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label,omitempty"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected,omitempty"`
}

// Options is the option list of one facet. Total is the count of the "All"
// pseudo option, the size of the facet's baseline.
type Options struct {
	Facet  types.FacetId `json:"-"`
	Name   string        `json:"name"`
	Total  int           `json:"total"`
	Values []Option      `json:"values"`
}

func (o *Options) Get(value string) (Option, bool) {
	idx := slices.IndexFunc(o.Values, func(opt Option) bool {
		return opt.Value == value
	})
	if idx < 0 {
		return Option{}, false
	}
	return o.Values[idx], true
}

func (o *Options) ValueList() []string {
	ret := make([]string, len(o.Values))
	for i, opt := range o.Values {
		ret[i] = opt.Value
	}
	return ret
}

// ValueOf extracts the value a moment contributes to a facet. An empty
// string means the moment has no value for it.
func ValueOf(m *types.Moment, facet types.FacetId, ctx *types.FilterContext) string {
	switch facet {
	case types.FacetSeries:
		return strconv.Itoa(m.Series)
	case types.FacetTier:
		return m.NormalizedTier()
	case types.FacetLeague:
		return League(m, ctx)
	case types.FacetSet:
		return m.SetName
	case types.FacetTeam:
		return m.TeamAtMoment
	case types.FacetPlayer:
		return m.PlayerFullName
	case types.FacetParallel:
		return strconv.Itoa(m.Subedition())
	}
	return ""
}

// SelectedValues returns the live selection of a facet as strings.
func SelectedValues(f *types.FilterState, facet types.FacetId) []string {
	switch facet {
	case types.FacetSeries:
		return itoaAll(f.Series.Values())
	case types.FacetTier:
		tiers := f.Tiers.Values()
		for i, t := range tiers {
			tiers[i] = strings.ToLower(t)
		}
		return tiers
	case types.FacetLeague:
		return f.Leagues.Values()
	case types.FacetSet:
		return f.Sets.Values()
	case types.FacetTeam:
		return f.Teams.Values()
	case types.FacetPlayer:
		return f.Players.Values()
	case types.FacetParallel:
		return itoaAll(f.Parallels.Values())
	}
	return nil
}

// BuildOptions derives the sorted, counted option list of a facet from its
// baseline. Selected values missing from the baseline are appended with a
// zero count so they can still be deselected.
func BuildOptions(facet types.FacetId, baseline []*types.Moment, ctx *types.FilterContext, selected []string) Options {
	counts := make(map[string]int)
	for _, m := range baseline {
		if m == nil {
			continue
		}
		if v := ValueOf(m, facet, ctx); v != "" {
			counts[v]++
		}
	}
	if facet == types.FacetSeries && ctx != nil {
		for _, s := range ctx.ForcedSeries {
			v := strconv.Itoa(s)
			if _, ok := counts[v]; !ok {
				counts[v] = 0
			}
		}
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	slices.SortFunc(values, NaturalCompare)

	isSelected := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		isSelected[s] = struct{}{}
	}

	ret := Options{
		Facet:  facet,
		Name:   facet.String(),
		Total:  len(baseline),
		Values: make([]Option, 0, len(values)+len(selected)),
	}
	for _, v := range values {
		_, sel := isSelected[v]
		ret.Values = append(ret.Values, makeOption(facet, v, counts[v], sel))
	}
	for _, s := range selected {
		if s == "" {
			continue
		}
		if _, found := counts[s]; found {
			continue
		}
		counts[s] = 0
		ret.Values = append(ret.Values, makeOption(facet, s, 0, true))
	}
	return ret
}

func makeOption(facet types.FacetId, value string, count int, selected bool) Option {
	opt := Option{Value: value, Count: count, Selected: selected}
	if facet == types.FacetParallel {
		if id, err := strconv.Atoi(value); err == nil {
			opt.Label = types.SubeditionName(id)
		}
	}
	return opt
}

func itoaAll(values []int) []string {
	ret := make([]string, len(values))
	for i, v := range values {
		ret[i] = strconv.Itoa(v)
	}
	return ret
}
