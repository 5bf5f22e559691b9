package types

// FilterContext carries the caller supplied inputs of an evaluation that
// the user cannot change through the filter state.
type FilterContext struct {
	// ExcludeIds are never eligible, e.g. moments already escrowed.
	ExcludeIds map[string]struct{}
	// SelectedIds are moments already picked elsewhere in the flow.
	SelectedIds map[string]struct{}
	// ShowLocked keeps locked moments visible. When false they are dropped
	// regardless of LockedStatus.
	ShowLocked    bool
	AllowAllTiers bool
	// SafetyOverrides lists series exempt from the low serial rule.
	SafetyOverrides map[int]struct{}
	// ForceSortOrder wins over FilterState.SortOrder when set.
	ForceSortOrder SortOrder
	PageSize       int
	// ForcedSeries are always offered as series options.
	ForcedSeries []int
	// LeagueRoster overrides the default WNBA roster when non-nil.
	LeagueRoster map[string]struct{}
}

const DefaultPageSize = 50

func (c *FilterContext) EffectivePageSize() int {
	if c == nil || c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

func (c *FilterContext) EffectiveSortOrder(f *FilterState) SortOrder {
	if c != nil && c.ForceSortOrder != "" {
		return c.ForceSortOrder
	}
	return f.SortOrder
}

func (c *FilterContext) IsExcluded(id string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.ExcludeIds[id]; ok {
		return true
	}
	_, ok := c.SelectedIds[id]
	return ok
}

func (c *FilterContext) IsOverridden(series int) bool {
	if c == nil {
		return false
	}
	_, ok := c.SafetyOverrides[series]
	return ok
}

func IdSet[K comparable](ids ...K) map[K]struct{} {
	ret := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		ret[id] = struct{}{}
	}
	return ret
}
