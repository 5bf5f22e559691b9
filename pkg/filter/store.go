package filter

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/matst80/moment-finder/pkg/types"
)

type ChangeHandler func(types.FilterState)

// Store owns the live filter state of one scope. All mutations go through
// Patch, Load, LoadJSON, Reset and SyncAvailable and are reported to the
// change handlers after the lock is released.
type Store struct {
	mu        sync.RWMutex
	state     types.FilterState
	series    []int
	tiers     []string
	listeners []ChangeHandler
}

// Defaults is the state a scope starts from: every available series and
// tier selected.
func Defaults(series []int, tiers []string) types.FilterState {
	f := types.NewFilterState(tiers)
	f.Series = types.Required(series...)
	return f
}

// NewStore starts with the given tier universe and no series. The series
// are filled in by the first SyncAvailable.
func NewStore(tiers []string) *Store {
	return &Store{
		state: Defaults(nil, tiers),
		tiers: slices.Clone(tiers),
	}
}

func (s *Store) State() types.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Available returns the full option sets the auto-correction compares
// against.
func (s *Store) Available() ([]int, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.series), slices.Clone(s.tiers)
}

func (s *Store) Defaults() types.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Defaults(s.series, s.tiers)
}

func (s *Store) OnChange(fn ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) update(fn func(types.FilterState) types.FilterState) types.FilterState {
	s.mu.Lock()
	prev := s.state
	next := fn(prev)
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()

	if !prev.Equal(next) {
		for _, l := range listeners {
			l(next)
		}
	}
	return next
}

// Patch merges the set fields of p into the state.
func (s *Store) Patch(p *Patch) types.FilterState {
	return s.update(p.Apply)
}

// Load replaces the state wholesale.
func (s *Store) Load(f types.FilterState) types.FilterState {
	return s.update(func(types.FilterState) types.FilterState {
		return f
	})
}

// LoadJSON overlays a stored document on the current state and returns to
// the first page. With migrate set the document may be in the scalar
// format.
func (s *Store) LoadJSON(data []byte, migrate bool) (types.FilterState, error) {
	if migrate {
		var err error
		if data, err = MigrateScalars(data); err != nil {
			return s.State(), err
		}
	}
	var loadErr error
	next := s.update(func(prev types.FilterState) types.FilterState {
		f := prev
		if err := f.UnmarshalJSON(data); err != nil {
			loadErr = fmt.Errorf("load filter: %w", err)
			return prev
		}
		f.CurrentPage = 1
		return f
	})
	return next, loadErr
}

// Reset restores the defaults for the current collection.
func (s *Store) Reset() types.FilterState {
	return s.update(func(types.FilterState) types.FilterState {
		return Defaults(s.series, s.tiers)
	})
}

// SyncAvailable is run when the collection behind the scope changes. A
// series or tier selection is replaced by the new full set when it held
// the previous full set or holds values that are no longer available. A
// deliberately narrowed selection is kept.
func (s *Store) SyncAvailable(series []int, tiers []string) types.FilterState {
	return s.update(func(prev types.FilterState) types.FilterState {
		return s.syncAvailable(prev, series, tiers)
	})
}

// SwitchAvailable is SyncAvailable for a different account's collection.
// The page of the previous account means nothing there, so it goes back to
// the first one in the same update.
func (s *Store) SwitchAvailable(series []int, tiers []string) types.FilterState {
	return s.update(func(prev types.FilterState) types.FilterState {
		f := s.syncAvailable(prev, series, tiers)
		f.CurrentPage = 1
		return f
	})
}

// syncAvailable must be called with the lock held.
func (s *Store) syncAvailable(f types.FilterState, series []int, tiers []string) types.FilterState {
	if shouldReset(f.Series, s.series, series) {
		f.Series = types.Required(series...)
	}
	if shouldReset(f.Tiers, s.tiers, tiers) {
		f.Tiers = types.Required(tiers...)
	}
	s.series = slices.Clone(series)
	s.tiers = slices.Clone(tiers)
	return f
}

func shouldReset[V cmp.Ordered](sel types.Selection[V], previous, next []V) bool {
	return sel.SameValues(previous) || len(sel.Missing(next)) > 0
}
