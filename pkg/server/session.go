package server

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/matst80/moment-finder/pkg/config"
	"github.com/matst80/moment-finder/pkg/facet"
	"github.com/matst80/moment-finder/pkg/filter"
	"github.com/matst80/moment-finder/pkg/index"
	"github.com/matst80/moment-finder/pkg/presets"
	"github.com/matst80/moment-finder/pkg/types"
)

// ScopeSession is the live filtering state of one scope in one session.
// Edits apply to the filter store right away, the view is rebuilt by the
// recomputer in the background.
type ScopeSession struct {
	Name       string
	mu         sync.RWMutex
	context    *types.FilterContext
	filter     *filter.Store
	recompute  *index.Recomputer
	presets    *presets.Store
	collection *index.Collection
	generation uint64
}

func newScopeSession(name string, fc *types.FilterContext, memo *index.Memo) *ScopeSession {
	s := &ScopeSession{
		Name:      name,
		context:   fc,
		filter:    filter.NewStore(types.AllowedTiers(fc.AllowAllTiers)),
		recompute: index.NewRecomputer(memo),
	}
	s.filter.OnChange(func(f types.FilterState) {
		if p := s.Presets(); p != nil {
			p.Observe(f)
		}
		s.submit(f)
	})
	return s
}

func (s *ScopeSession) submit(f types.FilterState) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation = s.recompute.Submit(s.collection, f, s.context)
	return s.generation
}

// setCollection swaps the snapshot and runs the auto-correction of the
// series and tier selections against it. A snapshot of another account
// also returns the state to the first page.
func (s *ScopeSession) setCollection(col *index.Collection, p *presets.Store) {
	s.mu.Lock()
	switched := s.collection != nil && s.collection.Account != col.Account
	s.collection = col
	s.presets = p
	s.mu.Unlock()

	series := facet.AvailableSeries(col.Moments, s.context)
	tiers := facet.AvailableTiers(col.Moments, s.context)
	if switched {
		s.filter.SwitchAvailable(series, tiers)
	} else {
		s.filter.SyncAvailable(series, tiers)
	}
	s.submit(s.filter.State())
}

func (s *ScopeSession) Collection() *index.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection
}

func (s *ScopeSession) Presets() *presets.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presets
}

func (s *ScopeSession) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *ScopeSession) Filter() *filter.Store {
	return s.filter
}

// View waits for the view of the latest submitted state.
func (s *ScopeSession) View(ctx context.Context) (*index.View, error) {
	return s.recompute.Wait(ctx, s.Generation())
}

func (s *ScopeSession) close() {
	s.recompute.Close()
}

// Session groups the scope sessions of one browser session. All scopes of
// a session look at the same account.
type Session struct {
	Id       string
	mu       sync.Mutex
	account  string
	scopes   map[string]*ScopeSession
	lastSeen time.Time
}

func (s *Session) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Sessions owns every session and keeps their collections current.
type Sessions struct {
	mu       sync.Mutex
	cfg      *config.Config
	catalog  *index.Catalog
	memo     *index.Memo
	presets  *presetRegistry
	sessions map[string]*Session
}

func NewSessions(cfg *config.Config, catalog *index.Catalog, memo *index.Memo, kv presets.KeyValueStore) *Sessions {
	s := &Sessions{
		cfg:      cfg,
		catalog:  catalog,
		memo:     memo,
		presets:  newPresetRegistry(kv, cfg, catalog),
		sessions: make(map[string]*Session),
	}
	catalog.OnReplace(s.collectionReplaced)
	return s
}

func (s *Sessions) get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{
			Id:     id,
			scopes: make(map[string]*ScopeSession),
		}
		s.sessions[id] = sess
	}
	sess.lastSeen = time.Now()
	return sess
}

// Scope returns the scope session, creating it on first use.
func (s *Sessions) Scope(sessionId, scope string) (*ScopeSession, bool) {
	cfg, ok := s.cfg.Scope(scope)
	if !ok {
		return nil, false
	}
	sess := s.get(sessionId)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sc, ok := sess.scopes[scope]; ok {
		return sc, true
	}
	sc := newScopeSession(scope, s.cfg.FilterContext(cfg), s.memo)
	sc.setCollection(s.catalog.Get(sess.account), s.presets.get(scope, sess.account))
	sess.scopes[scope] = sc
	return sc, true
}

// SetAccount points every scope of the session at the account's snapshot.
func (s *Sessions) SetAccount(sessionId, account string) *Session {
	sess := s.get(sessionId)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.account = account
	col := s.catalog.Get(account)
	for name, sc := range sess.scopes {
		sc.setCollection(col, s.presets.get(name, account))
	}
	return sess
}

func (s *Sessions) collectionReplaced(col *index.Collection) {
	s.mu.Lock()
	affected := make([]*Session, 0)
	for _, sess := range s.sessions {
		affected = append(affected, sess)
	}
	s.mu.Unlock()

	for _, sess := range affected {
		sess.mu.Lock()
		if sess.account == col.Account {
			for name, sc := range sess.scopes {
				sc.setCollection(col, s.presets.get(name, sess.account))
			}
		}
		sess.mu.Unlock()
	}
}

// Expire drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (s *Sessions) Expire(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.mu.Lock()
		for _, sc := range sess.scopes {
			sc.close()
		}
		sess.mu.Unlock()
	}
	return len(expired)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops every recomputer and flushes the preset stores.
func (s *Sessions) Close() {
	s.Expire(-time.Hour)
	s.presets.close()
}

// presetRegistry shares one preset store per scope and account between
// sessions so their writes do not overwrite each other.
type presetRegistry struct {
	mu      sync.Mutex
	kv      presets.KeyValueStore
	cfg     *config.Config
	catalog *index.Catalog
	stores  map[string]*presets.Store
}

func newPresetRegistry(kv presets.KeyValueStore, cfg *config.Config, catalog *index.Catalog) *presetRegistry {
	return &presetRegistry{
		kv:      kv,
		cfg:     cfg,
		catalog: catalog,
		stores:  make(map[string]*presets.Store),
	}
}

func presetScope(scope, account string) string {
	if account == "" {
		return scope
	}
	return scope + "/" + account
}

func (r *presetRegistry) get(scope, account string) *presets.Store {
	key := presetScope(scope, account)
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.stores[key]; ok {
		return p
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := presets.Open(ctx, r.kv, r.cfg.PresetNamespace, key, func() types.FilterState {
		return scopeDefaults(r.cfg, scope, r.catalog.Get(account))
	})
	r.stores[key] = p
	return p
}

func (r *presetRegistry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range slices.Sorted(maps.Keys(r.stores)) {
		r.stores[key].Close()
	}
}

// scopeDefaults is the reset state of a scope for a collection.
func scopeDefaults(cfg *config.Config, scope string, col *index.Collection) types.FilterState {
	sc, _ := cfg.Scope(scope)
	fc := cfg.FilterContext(sc)
	return filter.Defaults(facet.AvailableSeries(col.Moments, fc), facet.AvailableTiers(col.Moments, fc))
}
