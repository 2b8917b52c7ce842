// Package changefeed decorates a repogen.Store so that every successful write is
// announced as an Event on a watermill topic.
//
// Events are published after the write returns. A failed publish is logged and the
// write still succeeds, so the feed is at-most-once.
package changefeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/samber/lo"
)

// partitionKey is the metadata key holding the collection name.
const partitionKey = "partition_key"

// Op is the kind of write an Event reports.
type Op string

const (
	OpInserted Op = "inserted"
	OpReplaced Op = "replaced"
	OpDeleted  Op = "deleted"
	OpUpdated  Op = "updated"
)

// Event is the payload of a change feed message.
//
// IDs lists the written identifiers. Writes selected by a filter do not know them, and
// report Matching instead.
type Event struct {
	Op         Op        `json:"op"`
	Collection string    `json:"collection"`
	IDs        []string  `json:"ids,omitempty"`
	Matching   bool      `json:"matching,omitempty"`
	At         time.Time `json:"at"`
}

// Store is a repogen.Store publishing an Event after each successful write. Reads are
// served by the inner store unchanged.
type Store[E repogen.Entity] struct {
	repogen.Store[E]

	publisher message.Publisher
	topic     string
	name      string
	now       func() time.Time
	log       logger.Logger
}

// Option configures a Store.
type Option func(*options)

type options struct {
	topic string
	now   func() time.Time
	log   logger.Logger
}

// WithTopic sets the topic events are published to. Defaults to "docrepo.<collection>".
func WithTopic(topic string) Option {
	return func(o *options) { o.topic = topic }
}

// WithClock sets the source of Event.At.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger publish failures are reported to.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New wraps inner. The publisher is not closed by the store.
func New[E repogen.Entity](inner repogen.Store[E], publisher message.Publisher, opts ...Option) *Store[E] {
	name := inner.Collection().Name()
	o := options{
		topic: "docrepo." + name,
		now:   time.Now,
		log:   logger.Named("changefeed"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[E]{
		Store:     inner,
		publisher: publisher,
		topic:     o.topic,
		name:      name,
		now:       o.now,
		log:       o.log.With("collection", name, "topic", o.topic),
	}
}

// Topic returns the topic events are published to.
func (s *Store[E]) Topic() string {
	return s.topic
}

func (s *Store[E]) Insert(ctx context.Context, entity *E) error {
	if err := s.Store.Insert(ctx, entity); err != nil {
		return err
	}
	s.publish(ctx, Event{Op: OpInserted, IDs: []string{(*entity).GetID()}})
	return nil
}

func (s *Store[E]) InsertMany(ctx context.Context, entities []E) error {
	if err := s.Store.InsertMany(ctx, entities); err != nil {
		return err
	}
	if len(entities) > 0 {
		s.publish(ctx, Event{Op: OpInserted, IDs: ids(entities)})
	}
	return nil
}

func (s *Store[E]) Replace(ctx context.Context, entity E) error {
	if err := s.Store.Replace(ctx, entity); err != nil {
		return err
	}
	s.publish(ctx, Event{Op: OpReplaced, IDs: []string{entity.GetID()}})
	return nil
}

func (s *Store[E]) ReplaceMany(ctx context.Context, entities []E) error {
	if err := s.Store.ReplaceMany(ctx, entities); err != nil {
		return err
	}
	if len(entities) > 0 {
		s.publish(ctx, Event{Op: OpReplaced, IDs: ids(entities)})
	}
	return nil
}

func (s *Store[E]) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, Event{Op: OpDeleted, IDs: []string{id}})
	return nil
}

func (s *Store[E]) DeleteEntity(ctx context.Context, entity E) error {
	if err := s.Store.DeleteEntity(ctx, entity); err != nil {
		return err
	}
	s.publish(ctx, Event{Op: OpDeleted, IDs: []string{entity.GetID()}})
	return nil
}

func (s *Store[E]) DeleteMatching(ctx context.Context, f query.Filter) error {
	if err := s.Store.DeleteMatching(ctx, f); err != nil {
		return err
	}
	s.publish(ctx, Event{Op: OpDeleted, Matching: true})
	return nil
}

func (s *Store[E]) Update(ctx context.Context, entity E, u query.Update) (bool, error) {
	ok, err := s.Store.Update(ctx, entity, u)
	if ok && err == nil {
		s.publish(ctx, Event{Op: OpUpdated, IDs: []string{entity.GetID()}})
	}
	return ok, err
}

func (s *Store[E]) UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error) {
	ok, err := s.Store.UpdateMatching(ctx, f, u)
	if ok && err == nil {
		s.publish(ctx, Event{Op: OpUpdated, Matching: true})
	}
	return ok, err
}

func (s *Store[E]) UpdateField(ctx context.Context, entity E, field query.Key, value any) (bool, error) {
	ok, err := s.Store.UpdateField(ctx, entity, field, value)
	if ok && err == nil {
		s.publish(ctx, Event{Op: OpUpdated, IDs: []string{entity.GetID()}})
	}
	return ok, err
}

func (s *Store[E]) UpdateFieldMatching(
	ctx context.Context, f query.Filter, field query.Key, value any,
) (bool, error) {
	ok, err := s.Store.UpdateFieldMatching(ctx, f, field, value)
	if ok && err == nil {
		s.publish(ctx, Event{Op: OpUpdated, Matching: true})
	}
	return ok, err
}

func (s *Store[E]) publish(ctx context.Context, ev Event) {
	ev.Collection = s.name
	ev.At = s.now().UTC()

	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.WithContext(ctx).Errorx(errx.Wrap(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(partitionKey, s.name)
	msg.Metadata.Set("op", string(ev.Op))
	msg.SetContext(ctx)

	if err = s.publisher.Publish(s.topic, msg); err != nil {
		s.log.WithContext(ctx).Errorx(errx.Wrap(err, errx.WithDetails(errx.D{
			"op":  string(ev.Op),
			"ids": ev.IDs,
		})))
	}
}

func ids[E repogen.Entity](entities []E) []string {
	return lo.Map(entities, func(e E, _ int) string { return e.GetID() })
}
