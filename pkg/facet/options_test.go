package facet

import (
	"slices"
	"testing"

	"github.com/matst80/moment-finder/pkg/types"
)

func TestNaturalCompare(t *testing.T) {
	values := []string{"Series 10", "Series 2", "Series 1", "10", "9", "alpha", "Beta"}
	slices.SortFunc(values, NaturalCompare)
	expected := []string{"9", "10", "alpha", "Beta", "Series 1", "Series 2", "Series 10"}
	if !slices.Equal(values, expected) {
		t.Errorf("Expected %v, got %v", expected, values)
	}
}

func TestBuildOptionsCountsAndSorts(t *testing.T) {
	baseline := []*types.Moment{
		{Id: "1", SetName: "Set B"},
		{Id: "2", SetName: "Set A"},
		{Id: "3", SetName: "Set B"},
		{Id: "4", SetName: ""},
	}
	opts := BuildOptions(types.FacetSet, baseline, nil, nil)
	if opts.Total != 4 {
		t.Errorf("Expected total 4, got %d", opts.Total)
	}
	if got := opts.ValueList(); !slices.Equal(got, []string{"Set A", "Set B"}) {
		t.Errorf("Expected [Set A Set B], got %v", got)
	}
	if b, _ := opts.Get("Set B"); b.Count != 2 {
		t.Errorf("Expected Set B count 2, got %d", b.Count)
	}
}

func TestBuildOptionsRetainsSelected(t *testing.T) {
	baseline := []*types.Moment{
		{Id: "1", TeamAtMoment: "Lakers"},
	}
	opts := BuildOptions(types.FacetTeam, baseline, nil, []string{"Lakers", "Sonics"})
	sonics, ok := opts.Get("Sonics")
	if !ok {
		t.Fatalf("Expected retained option Sonics in %v", opts.Values)
	}
	if sonics.Count != 0 || !sonics.Selected {
		t.Errorf("Expected retained option with count 0, got %+v", sonics)
	}
	if last := opts.Values[len(opts.Values)-1]; last.Value != "Sonics" {
		t.Errorf("Expected retained value appended last, got %s", last.Value)
	}
	lakers, _ := opts.Get("Lakers")
	if !lakers.Selected || lakers.Count != 1 {
		t.Errorf("Expected selected Lakers with count 1, got %+v", lakers)
	}
}

func TestBuildOptionsEmptyBaseline(t *testing.T) {
	opts := BuildOptions(types.FacetPlayer, nil, nil, []string{"Kobe Bryant"})
	if opts.Total != 0 || len(opts.Values) != 1 || opts.Values[0].Value != "Kobe Bryant" {
		t.Errorf("Expected only the retained value, got %+v", opts)
	}
}

func TestBuildOptionsSeriesAndParallels(t *testing.T) {
	baseline := []*types.Moment{
		{Id: "1", Series: 0},
		{Id: "2", Series: 10},
		{Id: "3", Series: 2, SubeditionId: intPtr(3)},
	}
	ctx := &types.FilterContext{ForcedSeries: []int{4}}
	series := BuildOptions(types.FacetSeries, baseline, ctx, nil)
	if got := series.ValueList(); !slices.Equal(got, []string{"0", "2", "4", "10"}) {
		t.Errorf("Expected numeric series order, got %v", got)
	}
	parallels := BuildOptions(types.FacetParallel, baseline, nil, nil)
	if std, _ := parallels.Get("0"); std.Count != 2 || std.Label != "Standard" {
		t.Errorf("Expected two standard moments, got %+v", std)
	}
	if vortex, _ := parallels.Get("3"); vortex.Label != "Vortex" {
		t.Errorf("Expected vortex label, got %+v", vortex)
	}
}

func TestTierRetentionIgnoresCase(t *testing.T) {
	baseline := []*types.Moment{{Id: "1", Tier: "Fandom"}}
	f := types.NewFilterState([]string{"FANDOM"})
	opts := BuildOptions(types.FacetTier, baseline, nil, SelectedValues(&f, types.FacetTier))
	if len(opts.Values) != 1 || opts.Values[0].Value != "fandom" || !opts.Values[0].Selected {
		t.Errorf("Expected a single selected fandom option, got %+v", opts.Values)
	}
}

func TestAvailableTiersAndSeries(t *testing.T) {
	moments := []*types.Moment{
		{Id: "1", Tier: "Legendary", Series: 7},
		{Id: "2", Tier: "common", Series: 2},
		{Id: "3", Tier: "rare", Series: 9, IsLocked: true},
	}
	if got := AvailableTiers(moments, &types.FilterContext{AllowAllTiers: true}); !slices.Equal(got, []string{"common", "legendary"}) {
		t.Errorf("unexpected tiers %v", got)
	}
	if got := AvailableTiers(moments, nil); !slices.Equal(got, []string{"common"}) {
		t.Errorf("unexpected base tiers %v", got)
	}
	if got := AvailableTiers(nil, nil); !slices.Equal(got, types.BaseTiers) {
		t.Errorf("expected allowed tiers for empty collection, got %v", got)
	}
	if got := AvailableSeries(moments, nil); !slices.Equal(got, []int{2, 7}) {
		t.Errorf("unexpected series %v", got)
	}
	if got := AvailableSeries(moments, &types.FilterContext{ShowLocked: true}); !slices.Equal(got, []int{2, 7, 9}) {
		t.Errorf("unexpected series with locked %v", got)
	}
}
