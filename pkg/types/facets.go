package types

// FacetId identifies a cascadable facet. The values double as bits in the
// gate masks produced by the facet predicate.
type FacetId uint16

const (
	NoFacet       FacetId = 0
	FacetSeries   FacetId = 1 << 0
	FacetTier     FacetId = 1 << 1
	FacetLeague   FacetId = 1 << 2
	FacetSet      FacetId = 1 << 3
	FacetTeam     FacetId = 1 << 4
	FacetPlayer   FacetId = 1 << 5
	FacetParallel FacetId = 1 << 6
)

// CascadingFacets lists the facets that get their own baseline, in the
// order they are presented.
var CascadingFacets = []FacetId{
	FacetSeries,
	FacetTier,
	FacetLeague,
	FacetSet,
	FacetTeam,
	FacetPlayer,
	FacetParallel,
}

var facetNames = map[FacetId]string{
	FacetSeries:   "series",
	FacetTier:     "tier",
	FacetLeague:   "league",
	FacetSet:      "set",
	FacetTeam:     "team",
	FacetPlayer:   "player",
	FacetParallel: "parallel",
}

func (f FacetId) String() string {
	if name, ok := facetNames[f]; ok {
		return name
	}
	return "none"
}

type LockedStatus string

const (
	LockedAll      LockedStatus = "All"
	LockedOnly     LockedStatus = "Locked"
	LockedUnlocked LockedStatus = "Unlocked"
)

type SerialCategory string

const (
	SerialAll        SerialCategory = "All"
	SerialFirst      SerialCategory = "First"
	SerialJersey     SerialCategory = "Jersey"
	SerialLast       SerialCategory = "Last"
	SerialAllSpecial SerialCategory = "AllSpecial"
)

type SortOrder string

const (
	SortLowestSerial  SortOrder = "lowest-serial"
	SortHighestSerial SortOrder = "highest-serial"
)

// Descending reports whether the order puts high serials first. Unknown
// values sort ascending.
func (s SortOrder) Descending() bool {
	return s == SortHighestSerial
}

const (
	LeagueNBA  = "NBA"
	LeagueWNBA = "WNBA"
)

// LowSerialLimit is the highest serial hidden by the low serial safety rule.
const LowSerialLimit = 4000

var (
	BaseTiers  = []string{"common", "fandom"}
	ExtraTiers = []string{"rare", "legendary", "ultimate"}
	Leagues    = []string{LeagueNBA, LeagueWNBA}
)

// AllowedTiers is the tier universe for a scope.
func AllowedTiers(allowAll bool) []string {
	if !allowAll {
		return append([]string(nil), BaseTiers...)
	}
	ret := make([]string, 0, len(BaseTiers)+len(ExtraTiers))
	ret = append(ret, BaseTiers...)
	return append(ret, ExtraTiers...)
}
