package index

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/matst80/moment-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionMoments = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "momentfinder_collection_moments",
		Help: "Number of moments in the current snapshot per account",
	}, []string{"account"})
	collectionVersion atomic.Uint64
)

// Collection is an immutable snapshot of one account's moments. A new
// snapshot replaces the old one wholesale.
type Collection struct {
	Account string
	Version uint64
	Moments []*types.Moment
}

func NewCollection(account string, moments []types.Moment) *Collection {
	ptrs := make([]*types.Moment, len(moments))
	for i := range moments {
		ptrs[i] = &moments[i]
	}
	return &Collection{
		Account: account,
		Version: collectionVersion.Add(1),
		Moments: ptrs,
	}
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Moments)
}

// Catalog holds the latest snapshot per account.
type Catalog struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	listeners   []func(*Collection)
}

func NewCatalog() *Catalog {
	return &Catalog{
		collections: make(map[string]*Collection),
	}
}

// Get returns the snapshot for an account, an empty one when none is loaded.
func (c *Catalog) Get(account string) *Collection {
	c.mu.RLock()
	col, ok := c.collections[account]
	c.mu.RUnlock()
	if ok {
		return col
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if col, ok = c.collections[account]; ok {
		return col
	}
	col = NewCollection(account, nil)
	c.collections[account] = col
	return col
}

func (c *Catalog) Accounts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret := make([]string, 0, len(c.collections))
	for account := range c.collections {
		ret = append(ret, account)
	}
	return ret
}

// Replace swaps in a new snapshot for an account and notifies listeners.
func (c *Catalog) Replace(account string, moments []types.Moment) *Collection {
	col := NewCollection(account, moments)
	c.mu.Lock()
	c.collections[account] = col
	listeners := c.listeners
	c.mu.Unlock()

	collectionMoments.WithLabelValues(account).Set(float64(col.Len()))
	log.Printf("Replaced collection for %s with %s moments", account, humanize.Comma(int64(col.Len())))
	for _, fn := range listeners {
		fn(col)
	}
	return col
}

func (c *Catalog) OnReplace(fn func(*Collection)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
