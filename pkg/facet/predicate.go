package facet

import (
	"strings"

	"github.com/matst80/moment-finder/pkg/types"
)

// GateMask holds one bit per failed gate. The cascading facets reuse their
// FacetId bit so a mask can be tested against an omitted facet directly.
type GateMask uint32

const (
	GateSeries   = GateMask(types.FacetSeries)
	GateTier     = GateMask(types.FacetTier)
	GateLeague   = GateMask(types.FacetLeague)
	GateSet      = GateMask(types.FacetSet)
	GateTeam     = GateMask(types.FacetTeam)
	GatePlayer   = GateMask(types.FacetPlayer)
	GateParallel = GateMask(types.FacetParallel)

	GateExcluded GateMask = 1 << (iota + 9)
	GateHidden
	GateSpecialSerial
	GateLowSerial
	GateLockedStatus
	GateSerialCategory

	// GateAll marks a moment that cannot be evaluated at all.
	GateAll GateMask = 1<<32 - 1
)

// Passes reports whether every gate except the omitted facet passed.
func (g GateMask) Passes(omit types.FacetId) bool {
	return g&^GateMask(omit) == 0
}

// FailsOnly reports whether exactly the omitted facet's gate failed, which
// places the moment in that facet's baseline but not in the eligible set.
func (g GateMask) FailsOnly(facet types.FacetId) bool {
	return g != 0 && g == GateMask(facet)
}

// Gates evaluates every gate for a moment. Unlike Matches it does not stop
// at the first failure.
func Gates(m *types.Moment, f *types.FilterState, ctx *types.FilterContext) GateMask {
	if m == nil || f == nil {
		return GateAll
	}
	var failed GateMask

	if ctx.IsExcluded(m.Id) {
		failed |= GateExcluded
	}
	if m.IsLocked && (ctx == nil || !ctx.ShowLocked) {
		failed |= GateHidden
	}
	if !f.Series.Allows(m.Series) {
		failed |= GateSeries
	}
	if !allowsTier(f.Tiers, m.NormalizedTier()) {
		failed |= GateTier
	}
	if !f.Leagues.Allows(League(m, ctx)) {
		failed |= GateLeague
	}
	if !f.Sets.Allows(m.SetName) {
		failed |= GateSet
	}
	if !f.Teams.Allows(m.TeamAtMoment) {
		failed |= GateTeam
	}
	if !f.Players.Allows(m.PlayerFullName) {
		failed |= GatePlayer
	}
	if !f.Parallels.Allows(m.Subedition()) {
		failed |= GateParallel
	}
	if f.ExcludeSpecialSerials && IsSpecialSerial(m) {
		failed |= GateSpecialSerial
	}
	if f.ExcludeLowSerials && m.SerialNumber <= types.LowSerialLimit && !ctx.IsOverridden(m.Series) {
		failed |= GateLowSerial
	}
	if !matchesLockedStatus(m, f.LockedStatus) {
		failed |= GateLockedStatus
	}
	if !InSerialCategory(m, f.SerialCategory) {
		failed |= GateSerialCategory
	}
	return failed
}

// Matches decides whether a moment satisfies the selection, skipping the
// gate of the omitted facet. Pass types.NoFacet to evaluate every gate.
func Matches(m *types.Moment, f *types.FilterState, ctx *types.FilterContext, omit types.FacetId) bool {
	return Gates(m, f, ctx).Passes(omit)
}

func allowsTier(sel types.Selection[string], tier string) bool {
	if !sel.Restricts() {
		return true
	}
	if tier == "" {
		return false
	}
	return sel.ContainsFunc(func(v string) bool {
		return strings.EqualFold(v, tier)
	})
}

func matchesLockedStatus(m *types.Moment, status types.LockedStatus) bool {
	switch status {
	case types.LockedAll, "":
		return true
	case types.LockedOnly:
		return m.IsLocked
	case types.LockedUnlocked:
		return !m.IsLocked
	}
	return false
}
