// Package memstore provides an in-memory document collection that implements
// repogen.Store. Documents are kept in insertion order, which is the storage order
// used by unordered finds and as the tie-break of ordered finds.
//
// It is safe for concurrent use and is meant for tests, prototypes and small
// read-mostly datasets.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/rise-and-shine/docrepo/query"
	"github.com/samber/lo"
)

// Collection is the raw handle of an in-memory collection.
type Collection struct {
	name string

	mu    sync.RWMutex
	docs  map[string]query.Document
	order []string
}

func newCollection(name string) *Collection {
	return &Collection{
		name: name,
		docs: make(map[string]query.Document),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Count returns the number of stored documents.
func (c *Collection) Count(_ context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.order)), nil
}

// Drop removes every document.
func (c *Collection) Drop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = make(map[string]query.Document)
	c.order = nil
	return nil
}

// Snapshot returns copies of all documents in storage order.
func (c *Collection) Snapshot() []query.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Map(c.order, func(id string, _ int) query.Document { return c.docs[id].Clone() })
}

// Project returns the projected copies of the documents matching f in storage order.
func (c *Collection) Project(f query.Filter, p query.Projection) []query.Document {
	return lo.Map(c.match(f), func(doc query.Document, _ int) query.Document { return p.Apply(doc) })
}

// match returns copies of the documents matching f in storage order.
func (c *Collection) match(f query.Filter) []query.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]query.Document, 0)
	for _, id := range c.order {
		if doc := c.docs[id]; f.Match(doc) {
			out = append(out, doc.Clone())
		}
	}
	return out
}

// exists reports whether a document matches f without copying any of them.
func (c *Collection) exists(f query.Filter) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.ContainsFunc(c.order, func(id string) bool { return f.Match(c.docs[id]) })
}

func (c *Collection) get(id string) (query.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return doc.Clone(), true
}

// removeLocked deletes the ids from the collection. Callers hold the write lock.
func (c *Collection) removeLocked(ids ...string) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		delete(c.docs, id)
	}
	c.order = lo.Without(c.order, ids...)
}
