package changefeed_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rise-and-shine/docrepo/changefeed"
	"github.com/rise-and-shine/docrepo/internal/storetest"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/rise-and-shine/docrepo/memstore"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newFeed(t *testing.T) (*changefeed.Store[storetest.Item], <-chan *message.Message) {
	t.Helper()

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		changefeed.NewLoggerAdapter(logger.Nop()),
	)
	t.Cleanup(func() { _ = pubSub.Close() })

	s := changefeed.New[storetest.Item](memstore.New[storetest.Item]("items"), pubSub,
		changefeed.WithClock(func() time.Time { return fixedTime }),
		changefeed.WithLogger(logger.Nop()),
	)

	messages, err := pubSub.Subscribe(context.Background(), s.Topic())
	require.NoError(t, err)
	return s, messages
}

func next(t *testing.T, messages <-chan *message.Message) changefeed.Event {
	t.Helper()

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "items", msg.Metadata.Get("partition_key"))

		var ev changefeed.Event
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, string(ev.Op), msg.Metadata.Get("op"))
		return ev
	case <-time.After(time.Second):
		require.FailNow(t, "no event published")
		return changefeed.Event{}
	}
}

func assertNoEvent(t *testing.T, messages <-chan *message.Message) {
	t.Helper()

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Failf(t, "unexpected event", "%s", msg.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repogen.Store[storetest.Item] {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
		t.Cleanup(func() { _ = pubSub.Close() })
		return changefeed.New[storetest.Item](memstore.New[storetest.Item]("items"), pubSub)
	})
}

func TestDefaultTopic(t *testing.T) {
	s := changefeed.New[storetest.Item](memstore.New[storetest.Item]("items"), nil)
	assert.Equal(t, "docrepo.items", s.Topic())

	s = changefeed.New[storetest.Item](memstore.New[storetest.Item]("items"), nil, changefeed.WithTopic("audit"))
	assert.Equal(t, "audit", s.Topic())
}

func TestWritesArePublished(t *testing.T) {
	ctx := context.Background()
	s, messages := newFeed(t)

	entity := storetest.Item{Name: "alpha", Group: "x"}
	require.NoError(t, s.Insert(ctx, &entity))
	ev := next(t, messages)
	assert.Equal(t, changefeed.Event{
		Op: changefeed.OpInserted, Collection: "items", IDs: []string{entity.ID}, At: fixedTime,
	}, ev)

	require.NoError(t, s.InsertMany(ctx, []storetest.Item{{ID: "b"}, {ID: "c", Group: "x"}}))
	assert.Equal(t, []string{"b", "c"}, next(t, messages).IDs)

	require.NoError(t, s.Replace(ctx, storetest.Item{ID: "b", Name: "beta"}))
	ev = next(t, messages)
	assert.Equal(t, changefeed.OpReplaced, ev.Op)
	assert.Equal(t, []string{"b"}, ev.IDs)

	ok, err := s.UpdateField(ctx, storetest.Item{ID: "b"}, "rank", 3)
	require.NoError(t, err)
	require.True(t, ok)
	ev = next(t, messages)
	assert.Equal(t, changefeed.OpUpdated, ev.Op)
	assert.Equal(t, []string{"b"}, ev.IDs)

	ok, err = s.UpdateMatching(ctx, query.Eq("group", "x"), query.Inc("rank", 1))
	require.NoError(t, err)
	require.True(t, ok)
	ev = next(t, messages)
	assert.Equal(t, changefeed.OpUpdated, ev.Op)
	assert.True(t, ev.Matching)
	assert.Empty(t, ev.IDs)

	require.NoError(t, s.Delete(ctx, "b"))
	assert.Equal(t, changefeed.Event{
		Op: changefeed.OpDeleted, Collection: "items", IDs: []string{"b"}, At: fixedTime,
	}, next(t, messages))

	require.NoError(t, s.DeleteMatching(ctx, query.All()))
	ev = next(t, messages)
	assert.Equal(t, changefeed.OpDeleted, ev.Op)
	assert.True(t, ev.Matching)
}

func TestFailedOrEmptyWritesAreNotPublished(t *testing.T) {
	ctx := context.Background()
	s, messages := newFeed(t)

	require.NoError(t, s.Insert(ctx, &storetest.Item{ID: "a"}))
	next(t, messages)

	require.Error(t, s.Insert(ctx, &storetest.Item{ID: "a"}))
	require.Error(t, s.Replace(ctx, storetest.Item{}))
	require.NoError(t, s.InsertMany(ctx, nil))

	ok, err := s.UpdateField(ctx, storetest.Item{ID: "missing"}, "rank", 1)
	require.NoError(t, err)
	require.False(t, ok)

	assertNoEvent(t, messages)
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error { return nil }

func TestPublishFailureDoesNotFailTheWrite(t *testing.T) {
	ctx := context.Background()
	s := changefeed.New[storetest.Item](memstore.New[storetest.Item]("items"), failingPublisher{},
		changefeed.WithLogger(logger.Nop()),
	)

	require.NoError(t, s.Insert(ctx, &storetest.Item{ID: "a"}))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestLoggerAdapter(t *testing.T) {
	adapter := changefeed.NewLoggerAdapter(logger.Nop())
	child := adapter.With(watermill.LogFields{"topic": "items"})

	assert.NotPanics(t, func() {
		child.Info("published", nil)
		child.Debug("published", watermill.LogFields{"n": 1})
		child.Trace("published", nil)
		child.Error("failed", errors.New("boom"), watermill.LogFields{"n": 2})
	})
}
