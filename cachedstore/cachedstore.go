// Package cachedstore decorates a repogen.Store with a read-through cache for Get.
//
// Entities read by identifier are cached as JSON under "<collection>:<id>". Writes
// addressed by identifier evict that key; writes addressed by a filter evict the whole
// collection. Absence is never cached. A concurrent Get may still store a value read
// just before an eviction, so the cache TTL bounds how long such a value lives.
//
// Cache failures never fail a repository call: they are logged and the inner store
// answers instead.
package cachedstore

import (
	"context"
	"encoding/json"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/cache"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/samber/lo"
)

// Store is a repogen.Store whose Get goes through a cache. Every other read is served
// by the inner store.
type Store[E repogen.Entity] struct {
	repogen.Store[E]

	cache  cache.Cache
	coll   *collection
	prefix string
	log    logger.Logger
}

// Option configures a Store.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New wraps inner with c.
func New[E repogen.Entity](inner repogen.Store[E], c cache.Cache, opts ...Option) *Store[E] {
	o := options{log: logger.Named("cachedstore")}
	for _, opt := range opts {
		opt(&o)
	}

	name := inner.Collection().Name()
	s := &Store[E]{
		Store:  inner,
		cache:  c,
		prefix: name + ":",
		log:    o.log.With("collection", name),
	}
	s.coll = &collection{Collection: inner.Collection(), purge: s.purge}
	return s
}

func (s *Store[E]) key(id string) string {
	return s.prefix + id
}

// Collection returns a handle over the inner collection. Dropping through it also
// purges the cached documents of the collection; Unwrap gives the inner handle.
func (s *Store[E]) Collection() repogen.Collection {
	return s.coll
}

// collection is a raw handle whose Drop purges the cache.
type collection struct {
	repogen.Collection

	purge func(ctx context.Context)
}

// Unwrap returns the handle of the inner store, for native access.
func (c *collection) Unwrap() repogen.Collection {
	return c.Collection
}

func (c *collection) Drop(ctx context.Context) error {
	err := c.Collection.Drop(ctx)
	c.purge(ctx)
	return err
}

func (s *Store[E]) Get(ctx context.Context, id string) (*E, error) {
	data, ok, err := s.cache.Get(ctx, s.key(id))
	if err != nil {
		s.log.WithContext(ctx).Warnx(errx.Wrap(err, errx.WithDetails(errx.D{"id": id})))
	}
	if ok {
		var entity E
		if err = json.Unmarshal(data, &entity); err == nil {
			return &entity, nil
		}
		s.log.WithContext(ctx).Warnx(errx.Wrap(err, errx.WithDetails(errx.D{"id": id})))
	}

	entity, err := s.Store.Get(ctx, id)
	if err != nil || entity == nil {
		return entity, err
	}

	data, err = json.Marshal(entity)
	if err == nil {
		err = s.cache.Set(ctx, s.key(id), data)
	}
	if err != nil {
		s.log.WithContext(ctx).Warnx(errx.Wrap(err, errx.WithDetails(errx.D{"id": id})))
	}
	return entity, nil
}

func (s *Store[E]) Replace(ctx context.Context, entity E) error {
	err := s.Store.Replace(ctx, entity)
	s.evict(ctx, entity.GetID())
	return err
}

func (s *Store[E]) ReplaceMany(ctx context.Context, entities []E) error {
	err := s.Store.ReplaceMany(ctx, entities)
	s.evict(ctx, lo.Map(entities, func(e E, _ int) string { return e.GetID() })...)
	return err
}

func (s *Store[E]) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	s.evict(ctx, id)
	return err
}

func (s *Store[E]) DeleteEntity(ctx context.Context, entity E) error {
	err := s.Store.DeleteEntity(ctx, entity)
	s.evict(ctx, entity.GetID())
	return err
}

func (s *Store[E]) DeleteMatching(ctx context.Context, f query.Filter) error {
	err := s.Store.DeleteMatching(ctx, f)
	s.purge(ctx)
	return err
}

func (s *Store[E]) Update(ctx context.Context, entity E, u query.Update) (bool, error) {
	ok, err := s.Store.Update(ctx, entity, u)
	s.evict(ctx, entity.GetID())
	return ok, err
}

func (s *Store[E]) UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error) {
	ok, err := s.Store.UpdateMatching(ctx, f, u)
	s.purge(ctx)
	return ok, err
}

func (s *Store[E]) UpdateField(ctx context.Context, entity E, field query.Key, value any) (bool, error) {
	ok, err := s.Store.UpdateField(ctx, entity, field, value)
	s.evict(ctx, entity.GetID())
	return ok, err
}

func (s *Store[E]) UpdateFieldMatching(
	ctx context.Context, f query.Filter, field query.Key, value any,
) (bool, error) {
	ok, err := s.Store.UpdateFieldMatching(ctx, f, field, value)
	s.purge(ctx)
	return ok, err
}

// evict runs whether or not the write succeeded, since a failed write may still have
// changed the stored documents.
func (s *Store[E]) evict(ctx context.Context, ids ...string) {
	keys := lo.Map(ids, func(id string, _ int) string { return s.key(id) })
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithContext(ctx).Errorx(errx.Wrap(err))
	}
}

func (s *Store[E]) purge(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, s.prefix); err != nil {
		s.log.WithContext(ctx).Errorx(errx.Wrap(err))
	}
}
