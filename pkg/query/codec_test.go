package query

import (
	"net/url"
	"testing"

	"github.com/matst80/moment-finder/pkg/filter"
	"github.com/matst80/moment-finder/pkg/types"
)

var available = []int{0, 2, 3, 4, 5, 6, 7}

func defaults() types.FilterState {
	return filter.Defaults(available, types.BaseTiers)
}

func TestEncodeOnlyNonDefaults(t *testing.T) {
	f := defaults()
	f.Tiers = types.Required("fandom")
	values := Encode(f, defaults(), available)
	if values.Has(KeySeries) {
		t.Errorf("series should be omitted when all are selected, got %q", values.Get(KeySeries))
	}
	if got := values.Get(KeyTier); got != "fandom" {
		t.Errorf("expected tier=fandom, got %q", got)
	}
	for _, key := range []string{KeyLeague, KeySet, KeyTeam, KeyPage, KeyExcludeSpecial, KeyLocked, KeySort} {
		if values.Has(key) {
			t.Errorf("expected %s to be omitted", key)
		}
	}
}

func TestEncodeLists(t *testing.T) {
	f := defaults()
	f.Series = types.Required(4, 2)
	f.Sets = types.AnyOf("Set B", "Set A")
	f.Teams = types.AnyOf("Lakers", "Warriors")
	f.Parallels = types.AnyOf(3, 0)
	f.ExcludeLowSerials = false
	f.CurrentPage = 2
	values := Encode(f, defaults(), available)

	expected := map[string]string{
		KeySeries:     "2,4",
		KeySet:        "Set A,Set B",
		KeyTeam:       "Lakers,Warriors",
		KeyParallel:   "0,3",
		KeyExcludeLow: "false",
		KeyPage:       "2",
	}
	for key, want := range expected {
		if got := values.Get(key); got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestEncodeEmptySeries(t *testing.T) {
	f := defaults()
	f.Series = types.Required[int]()
	raw := EncodeString(f, defaults(), available)
	if raw != "series=" {
		t.Errorf("expected series=, got %q", raw)
	}
	if got := DecodeString(raw, defaults()); !got.Series.IsEmpty() {
		t.Errorf("empty series should survive decoding, got %v", got.Series.Values())
	}
}

func TestDecode(t *testing.T) {
	f := DecodeString("series=2,4&tier=fandom&team=Lakers", defaults())
	if !f.Series.SameValues([]int{2, 4}) {
		t.Errorf("expected series [2 4], got %v", f.Series.Values())
	}
	if !f.Tiers.SameValues([]string{"fandom"}) {
		t.Errorf("expected tiers [fandom], got %v", f.Tiers.Values())
	}
	if !f.Teams.SameValues([]string{"Lakers"}) {
		t.Errorf("expected team [Lakers], got %v", f.Teams.Values())
	}
	d := defaults()
	if !f.Leagues.Equal(d.Leagues) || f.Sets.Restricts() || f.CurrentPage != 1 {
		t.Errorf("unset fields should keep the defaults, got %+v", f.Stored())
	}
}

func TestDecodeInvalidValues(t *testing.T) {
	f := DecodeString("series=abc&tier=lol&page=-5", defaults())
	if !f.Series.IsEmpty() {
		t.Errorf("non numeric series should be dropped, got %v", f.Series.Values())
	}
	if !f.Tiers.SameValues([]string{"lol"}) {
		t.Errorf("unknown tiers should be kept, got %v", f.Tiers.Values())
	}
	if f.CurrentPage != 1 {
		t.Errorf("negative page should be ignored, got %d", f.CurrentPage)
	}

	f = DecodeString("page=abc&parallel=1,x,2&locked=Sometimes", defaults())
	if f.CurrentPage != 1 {
		t.Errorf("non numeric page should be ignored, got %d", f.CurrentPage)
	}
	if !f.Parallels.SameValues([]int{1, 2}) {
		t.Errorf("expected parallels [1 2], got %v", f.Parallels.Values())
	}
	if f.LockedStatus != "Sometimes" {
		t.Errorf("unknown enum values should be kept, got %q", f.LockedStatus)
	}
}

func TestEncodeEmptyTierAndLeague(t *testing.T) {
	f := defaults()
	f.Tiers = types.Required[string]()
	f.Leagues = types.Required[string]()
	raw := EncodeString(f, defaults(), available)
	if raw != "league=&tier=" {
		t.Errorf("expected league=&tier=, got %q", raw)
	}
	got := DecodeString(raw, defaults())
	if !got.Tiers.IsEmpty() || !got.Leagues.IsEmpty() {
		t.Errorf("empty selections should survive decoding, got %v %v", got.Tiers.Values(), got.Leagues.Values())
	}
	if !got.Equal(f) {
		t.Errorf("round trip mismatch\nwant %+v\ngot  %+v", f.Stored(), got.Stored())
	}
}

func TestDecodeSeriesZero(t *testing.T) {
	f := DecodeString("series=0,2", defaults())
	if !f.Series.Contains(0) || !f.Series.Contains(2) || f.Series.Len() != 2 {
		t.Errorf("expected series [0 2], got %v", f.Series.Values())
	}
}

func TestDecodeEncodedNames(t *testing.T) {
	f := DecodeString("set=Metallic+Silver+FE,Base%20Set&unknown=1", defaults())
	if !f.Sets.SameValues([]string{"Base Set", "Metallic Silver FE"}) {
		t.Errorf("unexpected sets %v", f.Sets.Values())
	}
}

func TestRoundTrip(t *testing.T) {
	d := defaults()
	tests := []types.FilterState{
		d,
		func() types.FilterState {
			f := d
			f.Series = types.Required(2, 5)
			f.Tiers = types.Required("common", "rare")
			f.Leagues = types.Required(types.LeagueWNBA)
			f.Players = types.AnyOf("A'ja Wilson", "Breanna Stewart")
			f.Parallels = types.AnyOf(0)
			f.ExcludeSpecialSerials = false
			f.LockedStatus = types.LockedUnlocked
			f.SerialCategory = types.SerialJersey
			f.SortOrder = types.SortHighestSerial
			f.CurrentPage = 12
			return f
		}(),
		func() types.FilterState {
			f := d
			f.Series = types.Required[int]()
			f.Sets = types.AnyOf("Rookie Debut")
			return f
		}(),
		func() types.FilterState {
			f := d
			f.Tiers = types.Required[string]()
			f.Teams = types.AnyOf("Lakers")
			return f
		}(),
	}
	for i, f := range tests {
		values := Encode(f, d, available)
		parsed, err := url.ParseQuery(values.Encode())
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if got := Decode(parsed, d); !got.Equal(f) {
			t.Errorf("case %d: round trip mismatch\nwant %+v\ngot  %+v", i, f.Stored(), got.Stored())
		}
	}
}
