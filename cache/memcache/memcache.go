// Package memcache implements cache.Cache in process memory with go-cache.
package memcache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rise-and-shine/docrepo/cache"
)

var _ cache.Cache = (*Cache)(nil)

// Cache keeps values in memory until they expire.
type Cache struct {
	c *gocache.Cache
}

// New returns a cache whose entries expire after ttl. A zero ttl keeps entries until
// they are deleted.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cache{c: gocache.New(ttl, time.Minute)}
}

func (m *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	return b, true, nil
}

func (m *Cache) Set(_ context.Context, key string, value []byte) error {
	m.c.SetDefault(key, value)
	return nil
}

func (m *Cache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Cache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range m.c.Items() {
		if strings.HasPrefix(k, prefix) {
			m.c.Delete(k)
		}
	}
	return nil
}

// Len returns the number of entries, expired ones included until they are swept.
func (m *Cache) Len() int {
	return m.c.ItemCount()
}
