package filter

import "github.com/matst80/moment-finder/pkg/types"

// Patch is a partial filter state, nil fields are left untouched. The JSON
// keys match types.StoredFilter.
type Patch struct {
	SelectedSeries        *[]int                `json:"selectedSeries,omitempty"`
	SelectedTiers         *[]string             `json:"selectedTiers,omitempty"`
	SelectedLeague        *[]string             `json:"selectedLeague,omitempty"`
	SelectedSetName       *[]string             `json:"selectedSetName,omitempty"`
	SelectedTeam          *[]string             `json:"selectedTeam,omitempty"`
	SelectedPlayer        *[]string             `json:"selectedPlayer,omitempty"`
	SelectedSubedition    *[]int                `json:"selectedSubedition,omitempty"`
	ExcludeSpecialSerials *bool                 `json:"excludeSpecialSerials,omitempty"`
	ExcludeLowSerials     *bool                 `json:"excludeLowSerials,omitempty"`
	LockedStatus          *types.LockedStatus   `json:"lockedStatus,omitempty"`
	SerialCategory        *types.SerialCategory `json:"specialSerialCategory,omitempty"`
	SortBy                *types.SortOrder      `json:"sortBy,omitempty"`
	CurrentPage           *int                  `json:"currentPage,omitempty"`
}

func (p *Patch) IsEmpty() bool {
	return p == nil || *p == Patch{}
}

// Apply merges the patch into f. Selection kinds are kept per facet.
func (p *Patch) Apply(f types.FilterState) types.FilterState {
	if p.IsEmpty() {
		return f
	}
	s := f.Stored()
	setIf(&s.SelectedSeries, p.SelectedSeries)
	setIf(&s.SelectedTiers, p.SelectedTiers)
	setIf(&s.SelectedLeague, p.SelectedLeague)
	setIf(&s.SelectedSetName, p.SelectedSetName)
	setIf(&s.SelectedTeam, p.SelectedTeam)
	setIf(&s.SelectedPlayer, p.SelectedPlayer)
	setIf(&s.SelectedSubedition, p.SelectedSubedition)
	setIf(&s.ExcludeSpecialSerials, p.ExcludeSpecialSerials)
	setIf(&s.ExcludeLowSerials, p.ExcludeLowSerials)
	setIf(&s.LockedStatus, p.LockedStatus)
	setIf(&s.SerialCategory, p.SerialCategory)
	setIf(&s.SortBy, p.SortBy)
	setIf(&s.CurrentPage, p.CurrentPage)
	return s.FilterState()
}

func setIf[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
