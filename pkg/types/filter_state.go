package types

import "encoding/json"

// FilterState is the complete user selection for one filtering scope.
type FilterState struct {
	Series                Selection[int]
	Tiers                 Selection[string]
	Leagues               Selection[string]
	Sets                  Selection[string]
	Teams                 Selection[string]
	Players               Selection[string]
	Parallels             Selection[int]
	ExcludeSpecialSerials bool
	ExcludeLowSerials     bool
	LockedStatus          LockedStatus
	SerialCategory        SerialCategory
	SortOrder             SortOrder
	CurrentPage           int
}

// NewFilterState returns the static defaults. Series starts out empty and
// is filled in once the collection is known.
func NewFilterState(tiers []string) FilterState {
	return FilterState{
		Series:                Required[int](),
		Tiers:                 Required(tiers...),
		Leagues:               Required(Leagues...),
		Sets:                  Unrestricted[string](),
		Teams:                 Unrestricted[string](),
		Players:               Unrestricted[string](),
		Parallels:             Unrestricted[int](),
		ExcludeSpecialSerials: true,
		ExcludeLowSerials:     true,
		LockedStatus:          LockedAll,
		SerialCategory:        SerialAll,
		SortOrder:             SortLowestSerial,
		CurrentPage:           1,
	}
}

func (f FilterState) Equal(o FilterState) bool {
	return f.Series.Equal(o.Series) &&
		f.Tiers.Equal(o.Tiers) &&
		f.Leagues.Equal(o.Leagues) &&
		f.Sets.Equal(o.Sets) &&
		f.Teams.Equal(o.Teams) &&
		f.Players.Equal(o.Players) &&
		f.Parallels.Equal(o.Parallels) &&
		f.ExcludeSpecialSerials == o.ExcludeSpecialSerials &&
		f.ExcludeLowSerials == o.ExcludeLowSerials &&
		f.LockedStatus == o.LockedStatus &&
		f.SerialCategory == o.SerialCategory &&
		f.SortOrder == o.SortOrder &&
		f.CurrentPage == o.CurrentPage
}

// StoredFilter is the JSON shape of a FilterState, shared by presets and
// the HTTP API.
type StoredFilter struct {
	SelectedSeries        []int          `json:"selectedSeries"`
	SelectedTiers         []string       `json:"selectedTiers"`
	SelectedLeague        []string       `json:"selectedLeague"`
	SelectedSetName       []string       `json:"selectedSetName"`
	SelectedTeam          []string       `json:"selectedTeam"`
	SelectedPlayer        []string       `json:"selectedPlayer"`
	SelectedSubedition    []int          `json:"selectedSubedition"`
	ExcludeSpecialSerials bool           `json:"excludeSpecialSerials"`
	ExcludeLowSerials     bool           `json:"excludeLowSerials"`
	LockedStatus          LockedStatus   `json:"lockedStatus"`
	SerialCategory        SerialCategory `json:"specialSerialCategory"`
	SortBy                SortOrder      `json:"sortBy"`
	CurrentPage           int            `json:"currentPage"`
}

func (f FilterState) Stored() StoredFilter {
	return StoredFilter{
		SelectedSeries:        nonNil(f.Series.Values()),
		SelectedTiers:         nonNil(f.Tiers.Values()),
		SelectedLeague:        nonNil(f.Leagues.Values()),
		SelectedSetName:       nonNil(f.Sets.Values()),
		SelectedTeam:          nonNil(f.Teams.Values()),
		SelectedPlayer:        nonNil(f.Players.Values()),
		SelectedSubedition:    nonNil(f.Parallels.Values()),
		ExcludeSpecialSerials: f.ExcludeSpecialSerials,
		ExcludeLowSerials:     f.ExcludeLowSerials,
		LockedStatus:          f.LockedStatus,
		SerialCategory:        f.SerialCategory,
		SortBy:                f.SortOrder,
		CurrentPage:           f.CurrentPage,
	}
}

// FilterState rebuilds the typed state, fixing the selection kind of every
// facet.
func (s StoredFilter) FilterState() FilterState {
	f := FilterState{
		Series:                Required(s.SelectedSeries...),
		Tiers:                 Required(s.SelectedTiers...),
		Leagues:               Required(s.SelectedLeague...),
		Sets:                  AnyOf(s.SelectedSetName...),
		Teams:                 AnyOf(s.SelectedTeam...),
		Players:               AnyOf(s.SelectedPlayer...),
		Parallels:             AnyOf(s.SelectedSubedition...),
		ExcludeSpecialSerials: s.ExcludeSpecialSerials,
		ExcludeLowSerials:     s.ExcludeLowSerials,
		LockedStatus:          s.LockedStatus,
		SerialCategory:        s.SerialCategory,
		SortOrder:             s.SortBy,
		CurrentPage:           s.CurrentPage,
	}
	if f.LockedStatus == "" {
		f.LockedStatus = LockedAll
	}
	if f.SerialCategory == "" {
		f.SerialCategory = SerialAll
	}
	if f.SortOrder == "" {
		f.SortOrder = SortLowestSerial
	}
	if f.CurrentPage < 1 {
		f.CurrentPage = 1
	}
	return f
}

func (f FilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Stored())
}

// UnmarshalJSON overlays the document on the current value, fields missing
// from the document keep what f already holds.
func (f *FilterState) UnmarshalJSON(data []byte) error {
	stored := f.Stored()
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	*f = stored.FilterState()
	return nil
}

func nonNil[V any](v []V) []V {
	if v == nil {
		return []V{}
	}
	return v
}
