package broker

import (
	"sync"
)

// Subscriber is an active subscription to a topic.
type Subscriber interface {
	// Options returns the subscription options.
	Options() SubscribeOptions

	// Topic returns the subscribed topic.
	Topic() string

	// Unsubscribe stops delivery and releases the subscription.
	Unsubscribe() error
}

type SubscriberMap map[string]Subscriber

// SubscriberSyncMap tracks active subscriptions by topic.
type SubscriberSyncMap struct {
	sync.RWMutex
	m SubscriberMap
}

func NewSubscriberSyncMap() *SubscriberSyncMap {
	return &SubscriberSyncMap{
		m: make(SubscriberMap),
	}
}

func (sm *SubscriberSyncMap) Add(topic string, sub Subscriber) {
	sm.Lock()
	defer sm.Unlock()

	sm.m[topic] = sub
}

func (sm *SubscriberSyncMap) Get(topic string) Subscriber {
	sm.RLock()
	defer sm.RUnlock()

	return sm.m[topic]
}

func (sm *SubscriberSyncMap) Remove(topic string) bool {
	sm.Lock()
	defer sm.Unlock()

	if _, ok := sm.m[topic]; !ok {
		return false
	}
	delete(sm.m, topic)
	return true
}

func (sm *SubscriberSyncMap) Size() int {
	sm.RLock()
	defer sm.RUnlock()

	return len(sm.m)
}

// Clear unsubscribes and drops every tracked subscription. The map is
// emptied before any Unsubscribe runs, so a subscriber that removes itself
// from this map on teardown does not re-enter a held lock.
func (sm *SubscriberSyncMap) Clear() {
	sm.Lock()
	subs := make([]Subscriber, 0, len(sm.m))
	for _, sub := range sm.m {
		subs = append(subs, sub)
	}
	sm.m = make(SubscriberMap)
	sm.Unlock()

	for _, sub := range subs {
		_ = sub.Unsubscribe()
	}
}

func (sm *SubscriberSyncMap) Foreach(fn func(topic string, sub Subscriber)) {
	sm.RLock()
	defer sm.RUnlock()

	for topic, sub := range sm.m {
		fn(topic, sub)
	}
}
