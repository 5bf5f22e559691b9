package presets

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matst80/moment-finder/pkg/common"
	"github.com/matst80/moment-finder/pkg/common/jsoncompat"
	"github.com/matst80/moment-finder/pkg/facet"
	"github.com/matst80/moment-finder/pkg/filter"
	"github.com/matst80/moment-finder/pkg/storage"
	"github.com/matst80/moment-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momentfinder_preset_store_errors_total",
		Help: "Failed preset store reads and writes",
	}, []string{"op"})
	storeWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momentfinder_preset_store_writes_total",
		Help: "Preset documents written to the key value store",
	})
)

const DefaultNamespace = "momentSelectionFilterPrefs"

const MaxNameLength = 40

var (
	ErrInvalidName = errors.New("preset name is required")
	ErrNameExists  = errors.New("preset name already exists")
)

var (
	markupPattern     = regexp.MustCompile(`</?[^>]*>`)
	nameCharsPattern  = regexp.MustCompile(`[^\w\s-]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeName strips markup and anything but word characters, spaces and
// dashes from a preset name, collapses whitespace and caps the length.
func SanitizeName(name string) string {
	name = markupPattern.ReplaceAllString(name, "")
	name = nameCharsPattern.ReplaceAllString(name, "")
	name = strings.TrimSpace(whitespacePattern.ReplaceAllString(name, " "))
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	return name
}

// KeyValueStore is the persistence the presets are written to. Get returns
// storage.ErrNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Record is one stored preset.
type Record struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

type Summary struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	Active  bool   `json:"active"`
}

type write struct {
	document []byte
}

// Store holds the presets of one scope. The whole scope is one document
// stored under "<namespace>:<scope>". Reads are served from memory, writes
// are queued and never block the caller.
type Store struct {
	mu       sync.RWMutex
	kv       KeyValueStore
	key      string
	records  map[string]Record
	active   string
	snapshot types.FilterState
	defaults func() types.FilterState
	writes   *common.QueueHandler[write]
	timeout  time.Duration
}

func Key(namespace, scope string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return namespace + ":" + scope
}

// Open loads the scope document. A missing or unreadable document starts
// an empty store, failures are logged and counted.
func Open(ctx context.Context, kv KeyValueStore, namespace, scope string, defaults func() types.FilterState) *Store {
	s := &Store{
		kv:       kv,
		key:      Key(namespace, scope),
		records:  make(map[string]Record),
		defaults: defaults,
		timeout:  5 * time.Second,
	}
	s.writes = common.NewQueueHandler(s.persist, 16)

	data, err := kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		storeErrors.WithLabelValues("read").Inc()
		log.Printf("Failed to read presets %s: %v", s.key, err)
	default:
		if err = jsoncompat.Unmarshal(data, &s.records); err != nil {
			storeErrors.WithLabelValues("decode").Inc()
			log.Printf("Failed to decode presets %s: %v", s.key, err)
			s.records = make(map[string]Record)
		}
	}
	return s
}

// persist writes the newest document of a batch, older ones are stale.
func (s *Store) persist(items []write) {
	last := items[len(items)-1]
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var err error
	if last.document == nil {
		err = s.kv.Remove(ctx, s.key)
	} else {
		err = s.kv.Set(ctx, s.key, last.document)
	}
	if err != nil {
		storeErrors.WithLabelValues("write").Inc()
		log.Printf("Failed to write presets %s: %v", s.key, err)
		return
	}
	storeWrites.Inc()
}

// enqueue must be called with the lock held.
func (s *Store) enqueue() {
	if len(s.records) == 0 {
		s.writes.Add(write{})
		return
	}
	data, err := jsoncompat.Marshal(s.records)
	if err != nil {
		storeErrors.WithLabelValues("encode").Inc()
		log.Printf("Failed to encode presets %s: %v", s.key, err)
		return
	}
	s.writes.Add(write{document: data})
}

// Save stores f under the sanitized name and marks it active. A name that
// matches an existing preset ignoring case is rejected with ErrNameExists.
func (s *Store) Save(name string, f types.FilterState) error {
	name = SanitizeName(name)
	if name == "" {
		return ErrInvalidName
	}
	data, err := jsoncompat.Marshal(f)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for existing := range s.records {
		if strings.EqualFold(existing, name) {
			return ErrNameExists
		}
	}
	s.records[name] = Record{Version: filter.CurrentVersion, Data: data}
	s.active = name
	s.snapshot = f
	s.enqueue()
	return nil
}

// Apply returns the preset overlaid on current, on the first page, and
// marks it active. A preset of an unknown version applies the defaults.
func (s *Store) Apply(name string, current types.FilterState) (types.FilterState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	if !ok {
		return current, false
	}

	f := current
	data, err := filter.Upgrade(rec.Version, rec.Data)
	if err == nil {
		err = f.UnmarshalJSON(data)
	}
	if err != nil {
		log.Printf("Preset %s in %s not usable, applying defaults: %v", name, s.key, err)
		f = s.defaults()
	}
	f.CurrentPage = 1

	s.active = name
	s.snapshot = f
	return f, true
}

func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		return false
	}
	delete(s.records, name)
	if s.active == name {
		s.active = ""
	}
	s.enqueue()
	return true
}

func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := slices.SortedFunc(maps.Keys(s.records), facet.NaturalCompare)
	ret := make([]Summary, len(names))
	for i, name := range names {
		ret[i] = Summary{
			Name:    name,
			Version: s.records[name].Version,
			Active:  name == s.active,
		}
	}
	return ret
}

func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Observe clears the active marker once the live state differs from the
// state the preset produced.
func (s *Store) Observe(f types.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != "" && !s.snapshot.Equal(f) {
		s.active = ""
	}
}

// Flush waits for queued writes.
func (s *Store) Flush() {
	s.writes.Flush()
}

func (s *Store) Close() {
	s.writes.Close()
}
