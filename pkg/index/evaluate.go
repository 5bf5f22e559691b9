package index

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/matst80/moment-finder/pkg/facet"
	"github.com/matst80/moment-finder/pkg/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("moment-finder-index")

// Result holds the eligible set and the per facet baselines of one
// evaluation as bitmaps over collection positions.
type Result struct {
	Collection *Collection
	State      types.FilterState
	Context    *types.FilterContext
	Eligible   *roaring.Bitmap
	baselines  map[types.FacetId]*roaring.Bitmap
}

// Evaluate runs every gate once per moment. A moment failing no gate is
// eligible; a moment failing exactly one cascading facet belongs to that
// facet's baseline only. Every baseline also contains the eligible set.
func Evaluate(ctx context.Context, c *Collection, f *types.FilterState, fc *types.FilterContext) *Result {
	_, span := tracer.Start(ctx, "Evaluate")
	defer span.End()

	r := &Result{
		Collection: c,
		State:      *f,
		Context:    fc,
		Eligible:   roaring.New(),
		baselines:  make(map[types.FacetId]*roaring.Bitmap, len(types.CascadingFacets)),
	}
	for _, id := range types.CascadingFacets {
		r.baselines[id] = roaring.New()
	}
	if c == nil {
		return r
	}

	for i, m := range c.Moments {
		g := facet.Gates(m, f, fc)
		if g == 0 {
			r.Eligible.Add(uint32(i))
			continue
		}
		for _, id := range types.CascadingFacets {
			if g.FailsOnly(id) {
				r.baselines[id].Add(uint32(i))
				break
			}
		}
	}
	for _, bm := range r.baselines {
		bm.Or(r.Eligible)
	}

	span.SetAttributes(
		attribute.Int("moments", c.Len()),
		attribute.Int("eligible", int(r.Eligible.GetCardinality())),
	)
	return r
}

// Baseline is the eligible set computed with the facet's own gate skipped.
func (r *Result) Baseline(id types.FacetId) *roaring.Bitmap {
	if bm, ok := r.baselines[id]; ok {
		return bm
	}
	return r.Eligible
}

func (r *Result) Moments(bm *roaring.Bitmap) []*types.Moment {
	ret := make([]*types.Moment, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ret = append(ret, r.Collection.Moments[it.Next()])
	}
	return ret
}

func (r *Result) EligibleMoments() []*types.Moment {
	return r.Moments(r.Eligible)
}

func (r *Result) BaselineMoments(id types.FacetId) []*types.Moment {
	return r.Moments(r.Baseline(id))
}

// Options builds the cascading option list of a facet.
func (r *Result) Options(id types.FacetId) facet.Options {
	return facet.BuildOptions(id, r.BaselineMoments(id), r.Context, facet.SelectedValues(&r.State, id))
}

func (r *Result) AllOptions() []facet.Options {
	ret := make([]facet.Options, 0, len(types.CascadingFacets))
	for _, id := range types.CascadingFacets {
		ret = append(ret, r.Options(id))
	}
	return ret
}
