package index

import (
	"context"
	"sync"
	"time"

	"github.com/matst80/moment-finder/pkg/types"
)

type recomputeRequest struct {
	generation uint64
	collection *Collection
	state      types.FilterState
	context    *types.FilterContext
}

// Recomputer rebuilds views off the caller's goroutine. Submitting a new
// state never blocks; if a newer state arrives while an older one is being
// computed, the older result is dropped when it completes. Only the latest
// submission is ever published.
type Recomputer struct {
	mu        sync.Mutex
	memo      *Memo
	pending   *recomputeRequest
	submitted uint64
	published uint64
	latest    *View
	changed   chan struct{}
	wake      chan struct{}
	done      chan struct{}
}

func NewRecomputer(memo *Memo) *Recomputer {
	if memo == nil {
		memo = NewMemo(4)
	}
	r := &Recomputer{
		memo:    memo,
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Submit schedules a recomputation and returns its generation.
func (r *Recomputer) Submit(c *Collection, f types.FilterState, fc *types.FilterContext) uint64 {
	r.mu.Lock()
	r.submitted++
	gen := r.submitted
	if r.pending != nil {
		recomputeSuperseded.Inc()
	}
	r.pending = &recomputeRequest{
		generation: gen,
		collection: c,
		state:      f,
		context:    fc,
	}
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return gen
}

// Latest returns the most recently published view and its generation. The
// view is nil until the first recomputation completes.
func (r *Recomputer) Latest() (*View, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.published
}

// Wait blocks until a view of at least the given generation is published.
func (r *Recomputer) Wait(ctx context.Context, generation uint64) (*View, error) {
	for {
		r.mu.Lock()
		if r.published >= generation && r.latest != nil {
			v := r.latest
			r.mu.Unlock()
			return v, nil
		}
		ch := r.changed
		r.mu.Unlock()

		select {
		case <-ch:
		case <-r.done:
			return nil, context.Canceled
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (r *Recomputer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

func (r *Recomputer) run() {
	for {
		select {
		case <-r.done:
			return
		case <-r.wake:
		}

		r.mu.Lock()
		req := r.pending
		r.pending = nil
		r.mu.Unlock()
		if req == nil {
			continue
		}

		start := time.Now()
		v := r.memo.View(context.Background(), req.collection, &req.state, req.context)
		recomputeDuration.Observe(time.Since(start).Seconds())

		r.mu.Lock()
		if req.generation < r.submitted {
			// a newer state arrived while computing, it is already pending
			r.mu.Unlock()
			recomputeSuperseded.Inc()
			continue
		}
		r.latest = v
		r.published = req.generation
		close(r.changed)
		r.changed = make(chan struct{})
		r.mu.Unlock()

		eligibleMoments.Observe(float64(len(v.Eligible())))
	}
}
