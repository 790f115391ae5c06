package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSubscriber struct {
	topic        string
	unsubscribed bool

	// set on subscribers that deregister themselves on Unsubscribe, the
	// way the rabbitmq subscriber does
	owner *SubscriberSyncMap
}

func (s *stubSubscriber) Options() SubscribeOptions { return NewSubscribeOptions() }
func (s *stubSubscriber) Topic() string             { return s.topic }
func (s *stubSubscriber) Unsubscribe() error {
	s.unsubscribed = true
	if s.owner != nil {
		_ = s.owner.Remove(s.topic)
	}
	return nil
}

func TestSubscriberSyncMap(t *testing.T) {
	sm := NewSubscriberSyncMap()

	a := &stubSubscriber{topic: "catalog_events"}
	b := &stubSubscriber{topic: "payment_events"}

	sm.Add(a.topic, a)
	sm.Add(b.topic, b)
	assert.Equal(t, 2, sm.Size())
	assert.Equal(t, Subscriber(a), sm.Get("catalog_events"))

	assert.True(t, sm.Remove("catalog_events"))
	assert.False(t, sm.Remove("catalog_events"))
	assert.Equal(t, 1, sm.Size())

	sm.Clear()
	assert.Equal(t, 0, sm.Size())
	assert.True(t, b.unsubscribed)
}

func TestClearWithSelfRemovingSubscriber(t *testing.T) {
	sm := NewSubscriberSyncMap()

	a := &stubSubscriber{topic: "catalog_events", owner: sm}
	b := &stubSubscriber{topic: "payment_events", owner: sm}
	sm.Add(a.topic, a)
	sm.Add(b.topic, b)

	done := make(chan struct{})
	go func() {
		sm.Clear()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Clear blocked on a subscriber removing itself from the map")
	}

	assert.Equal(t, 0, sm.Size())
	assert.True(t, a.unsubscribed)
	assert.True(t, b.unsubscribed)
}
