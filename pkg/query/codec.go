package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/moment-finder/pkg/types"
)

const (
	KeySeries         = "series"
	KeyTier           = "tier"
	KeyLeague         = "league"
	KeySet            = "set"
	KeyTeam           = "team"
	KeyPlayer         = "player"
	KeyParallel       = "parallel"
	KeyExcludeSpecial = "excludeSpecial"
	KeyExcludeLow     = "excludeLow"
	KeyLocked         = "locked"
	KeySort           = "sort"
	KeySpecial        = "special"
	KeyPage           = "page"
)

// Params is the raw query string form of a filter state. Lists are comma
// joined, every field is kept as text so a malformed value never fails the
// whole decode.
type Params struct {
	Series         string `schema:"series,omitempty"`
	Tier           string `schema:"tier,omitempty"`
	League         string `schema:"league,omitempty"`
	Set            string `schema:"set,omitempty"`
	Team           string `schema:"team,omitempty"`
	Player         string `schema:"player,omitempty"`
	Parallel       string `schema:"parallel,omitempty"`
	ExcludeSpecial string `schema:"excludeSpecial,omitempty"`
	ExcludeLow     string `schema:"excludeLow,omitempty"`
	Locked         string `schema:"locked,omitempty"`
	Sort           string `schema:"sort,omitempty"`
	Special        string `schema:"special,omitempty"`
	Page           string `schema:"page,omitempty"`
}

var (
	decoder = schema.NewDecoder()
	encoder = schema.NewEncoder()
)

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// Encode writes the fields of f that differ from defaults. Series is left
// out when it holds exactly the available series. An explicitly empty
// series, tier or league selection is written as an empty value.
func Encode(f types.FilterState, defaults types.FilterState, availableSeries []int) url.Values {
	p := Params{}
	empty := make([]string, 0)
	if !f.Series.SameValues(availableSeries) {
		if f.Series.IsEmpty() {
			empty = append(empty, KeySeries)
		} else {
			p.Series = joinInts(f.Series.Values())
		}
	}
	if !f.Tiers.SameValues(defaults.Tiers.Values()) {
		if f.Tiers.IsEmpty() {
			empty = append(empty, KeyTier)
		} else {
			p.Tier = strings.Join(f.Tiers.Values(), ",")
		}
	}
	if !f.Leagues.SameValues(defaults.Leagues.Values()) {
		if f.Leagues.IsEmpty() {
			empty = append(empty, KeyLeague)
		} else {
			p.League = strings.Join(f.Leagues.Values(), ",")
		}
	}
	p.Set = strings.Join(f.Sets.Values(), ",")
	p.Team = strings.Join(f.Teams.Values(), ",")
	p.Player = strings.Join(f.Players.Values(), ",")
	p.Parallel = joinInts(f.Parallels.Values())
	if f.ExcludeSpecialSerials != defaults.ExcludeSpecialSerials {
		p.ExcludeSpecial = strconv.FormatBool(f.ExcludeSpecialSerials)
	}
	if f.ExcludeLowSerials != defaults.ExcludeLowSerials {
		p.ExcludeLow = strconv.FormatBool(f.ExcludeLowSerials)
	}
	if f.LockedStatus != defaults.LockedStatus {
		p.Locked = string(f.LockedStatus)
	}
	if f.SortOrder != defaults.SortOrder {
		p.Sort = string(f.SortOrder)
	}
	if f.SerialCategory != defaults.SerialCategory {
		p.Special = string(f.SerialCategory)
	}
	if f.CurrentPage > 1 {
		p.Page = strconv.Itoa(f.CurrentPage)
	}

	values := url.Values{}
	// only string fields, encoding cannot fail
	_ = encoder.Encode(p, values)
	for _, key := range empty {
		values.Set(key, "")
	}
	return values
}

// EncodeString is Encode rendered as a query string without the leading ?.
func EncodeString(f types.FilterState, defaults types.FilterState, availableSeries []int) string {
	return Encode(f, defaults, availableSeries).Encode()
}

// Decode overlays the recognized parameters on defaults. Numeric lists drop
// tokens that are not integers, unknown strings are kept as they are and a
// page that is not a positive integer is ignored.
func Decode(values url.Values, defaults types.FilterState) types.FilterState {
	f := defaults
	p := Params{}
	if err := decoder.Decode(&p, values); err != nil {
		// only string fields, a failure means unusable input
		return f
	}

	// an empty value is an explicit empty selection
	if values.Has(KeySeries) {
		f.Series = types.Required(splitInts(values.Get(KeySeries))...)
	}
	if values.Has(KeyTier) {
		f.Tiers = types.Required(splitStrings(p.Tier)...)
	}
	if values.Has(KeyLeague) {
		f.Leagues = types.Required(splitStrings(p.League)...)
	}
	if p.Set != "" {
		f.Sets = types.AnyOf(splitStrings(p.Set)...)
	}
	if p.Team != "" {
		f.Teams = types.AnyOf(splitStrings(p.Team)...)
	}
	if p.Player != "" {
		f.Players = types.AnyOf(splitStrings(p.Player)...)
	}
	if p.Parallel != "" {
		f.Parallels = types.AnyOf(splitInts(p.Parallel)...)
	}
	if values.Has(KeyExcludeSpecial) {
		f.ExcludeSpecialSerials = values.Get(KeyExcludeSpecial) == "true"
	}
	if values.Has(KeyExcludeLow) {
		f.ExcludeLowSerials = values.Get(KeyExcludeLow) == "true"
	}
	if p.Locked != "" {
		f.LockedStatus = types.LockedStatus(p.Locked)
	}
	if p.Sort != "" {
		f.SortOrder = types.SortOrder(p.Sort)
	}
	if p.Special != "" {
		f.SerialCategory = types.SerialCategory(p.Special)
	}
	if page, err := strconv.Atoi(strings.TrimSpace(p.Page)); err == nil && page > 0 {
		f.CurrentPage = page
	}
	return f
}

// DecodeString parses a raw query string, a leading ? is allowed.
func DecodeString(raw string, defaults types.FilterState) types.FilterState {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil && len(values) == 0 {
		return defaults
	}
	return Decode(values, defaults)
}

func splitStrings(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ret := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ret = append(ret, part)
		}
	}
	return ret
}

func splitInts(s string) []int {
	parts := splitStrings(s)
	ret := make([]int, 0, len(parts))
	for _, part := range parts {
		if v, err := strconv.Atoi(part); err == nil {
			ret = append(ret, v)
		}
	}
	return ret
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
