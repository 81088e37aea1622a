package binding

import (
	"log/slog"
	"reflect"
	"sync"
)

// Cache memoizes type mappings by record type. Entries are never evicted.
type Cache struct {
	mu     sync.Mutex
	types  map[reflect.Type]*TypeMapping
	logger *slog.Logger
}

// NewCache creates an empty cache. A nil logger uses slog.Default.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		types:  make(map[reflect.Type]*TypeMapping),
		logger: logger,
	}
}

var defaultCache = NewCache(nil)

// DefaultCache returns the process-wide cache shared by all mappers that
// are not given their own.
func DefaultCache() *Cache {
	return defaultCache
}

// Get returns the mapping of t, discovering it on first use.
func (c *Cache) Get(t reflect.Type) (*TypeMapping, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.types[t]; ok {
		return m, nil
	}
	m, err := Discover(t)
	if err != nil {
		return nil, err
	}
	c.types[t] = m
	c.logger.Debug("discovered type mapping",
		"type", t.String(),
		"columns", len(m.order),
		"indexed", len(m.byIndex))
	return m, nil
}

// Len returns the number of cached types.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.types)
}
