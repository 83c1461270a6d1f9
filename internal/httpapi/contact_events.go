package httpapi

import (
	"sync"
	"time"
)

// ContactEvent notifies inbox clients that a contact was created or removed.
type ContactEvent struct {
	ContactID    string
	EventType    string
	SubmittedAt  time.Time
	ContactCount int64
}

const (
	ContactEventTypeCreated = "created"
	ContactEventTypeDeleted = "deleted"

	contactEventDefaultBuffer = 8
)

// ContactEventBroadcaster fans contact events out to subscribed inbox clients.
type ContactEventBroadcaster struct {
	mutex        sync.Mutex
	nextID       int64
	subscribers  map[int64]chan ContactEvent
	closed       bool
	bufferLength int
}

// NewContactEventBroadcaster constructs a broadcaster for contact events.
func NewContactEventBroadcaster() *ContactEventBroadcaster {
	return &ContactEventBroadcaster{
		subscribers:  make(map[int64]chan ContactEvent),
		bufferLength: contactEventDefaultBuffer,
	}
}

// Subscribe returns a subscription that streams contact events, or nil when
// the broadcaster is already closed.
func (broadcaster *ContactEventBroadcaster) Subscribe() *ContactEventSubscription {
	broadcaster.mutex.Lock()
	defer broadcaster.mutex.Unlock()
	if broadcaster.closed {
		return nil
	}
	subscriptionID := broadcaster.nextID
	broadcaster.nextID++
	eventChannel := make(chan ContactEvent, broadcaster.bufferLength)
	broadcaster.subscribers[subscriptionID] = eventChannel
	return &ContactEventSubscription{
		broadcaster: broadcaster,
		identifier:  subscriptionID,
		events:      eventChannel,
	}
}

// Broadcast delivers the event to all active subscribers. Slow subscribers
// with full buffers are skipped rather than blocked on.
func (broadcaster *ContactEventBroadcaster) Broadcast(event ContactEvent) {
	broadcaster.mutex.Lock()
	defer broadcaster.mutex.Unlock()
	if broadcaster.closed || len(broadcaster.subscribers) == 0 {
		return
	}
	for _, channel := range broadcaster.subscribers {
		select {
		case channel <- event:
		default:
		}
	}
}

// Close stops the broadcaster and closes all subscriber channels.
func (broadcaster *ContactEventBroadcaster) Close() {
	broadcaster.mutex.Lock()
	if broadcaster.closed {
		broadcaster.mutex.Unlock()
		return
	}
	broadcaster.closed = true
	for identifier, channel := range broadcaster.subscribers {
		close(channel)
		delete(broadcaster.subscribers, identifier)
	}
	broadcaster.mutex.Unlock()
}

func (broadcaster *ContactEventBroadcaster) remove(identifier int64) {
	broadcaster.mutex.Lock()
	channel, exists := broadcaster.subscribers[identifier]
	if exists {
		delete(broadcaster.subscribers, identifier)
		close(channel)
	}
	broadcaster.mutex.Unlock()
}

// ContactEventSubscription represents a single subscriber to contact events.
type ContactEventSubscription struct {
	broadcaster *ContactEventBroadcaster
	identifier  int64
	events      chan ContactEvent
	once        sync.Once
}

// Events exposes the receive-only event channel.
func (subscription *ContactEventSubscription) Events() <-chan ContactEvent {
	if subscription == nil {
		return nil
	}
	return subscription.events
}

// Close unregisters the subscription and closes its channel.
func (subscription *ContactEventSubscription) Close() {
	if subscription == nil {
		return
	}
	subscription.once.Do(func() {
		subscription.broadcaster.remove(subscription.identifier)
	})
}
