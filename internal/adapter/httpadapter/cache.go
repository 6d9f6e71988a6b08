package httpadapter

import (
	"container/list"
	"sync"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
)

// rankKey identifies one ranking of one snapshot. Keys from an older snapshot
// are never requested again and age out of the cache.
func rankKey(snapshotID string, view domain.ViewMode, spec domain.SortSpec) string {
	return snapshotID + "|" + view.String() + "|" + spec.String()
}

// rankCache is a thread-safe LRU cache of ranked record slices. Cached slices
// are shared between requests and must not be modified.
type rankCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type rankEntry struct {
	key     string
	records []domain.WaterSystemRecord
}

func newRankCache(maxEntries int) *rankCache {
	return &rankCache{
		maxEntries: max(maxEntries, 1),
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *rankCache) get(key string) ([]domain.WaterSystemRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*rankEntry).records, true
}

func (c *rankCache) put(key string, records []domain.WaterSystemRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*rankEntry).records = records
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&rankEntry{key: key, records: records})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*rankEntry).key)
	}
}

func (c *rankCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
