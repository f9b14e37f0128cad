package source

import (
	"container/list"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mhartmann/frankenevents/internal/logger"
)

// DefaultCacheMaxEntries bounds a source cache when no limit is configured.
const DefaultCacheMaxEntries = 500

// Cache is a per-source persistent set of processed-item keys with LRU
// eviction. Marking or probing a key refreshes it; when the cache
// overflows, the key untouched for longest is evicted.
type Cache struct {
	path       string
	maxEntries int

	// front of ll is most recently used
	ll    *list.List
	items map[string]*list.Element
	log   *zap.SugaredLogger
}

type cacheFile struct {
	ProcessedKeys []string `json:"processed_keys"`
	UpdatedAt     string   `json:"updated_at"`
}

// NewCache creates an empty cache persisted at path.
func NewCache(path string, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &Cache{
		path:       path,
		maxEntries: maxEntries,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		log:        logger.Get("cache"),
	}
}

// Load reads the persisted key list. A missing or corrupt file yields an
// empty cache with a warning; the worst case is re-processing items, not
// losing data.
func (c *Cache) Load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warnw("cache unreadable, starting empty", "path", c.path, "error", err)
		}
		return
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Warnw("cache corrupt, starting empty", "path", c.path, "error", err)
		return
	}

	// Keys are persisted oldest-first, so inserting in order restores
	// the recency ranking.
	for _, key := range f.ProcessedKeys {
		c.MarkProcessed(key)
	}
}

// IsProcessed reports whether key was already seen. A hit refreshes the
// key's recency.
func (c *Cache) IsProcessed(key string) bool {
	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.ll.MoveToFront(elem)
	return true
}

// MarkProcessed records a processed key, evicting the least recently
// used key if the cache is full.
func (c *Cache) MarkProcessed(key string) {
	if key == "" {
		return
	}
	if elem, ok := c.items[key]; ok {
		c.ll.MoveToFront(elem)
		return
	}

	c.items[key] = c.ll.PushFront(key)

	if c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(string))
	}
}

// Save persists the cache, keys ordered oldest-first.
func (c *Cache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	keys := make([]string, 0, c.ll.Len())
	for elem := c.ll.Back(); elem != nil; elem = elem.Prev() {
		keys = append(keys, elem.Value.(string))
	}

	data, err := json.MarshalIndent(cacheFile{
		ProcessedKeys: keys,
		UpdatedAt:     time.Now().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0644)
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	return c.ll.Len()
}
