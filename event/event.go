// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package event provides the typed pub/sub bus used to decouple the
// governance ledger from its consumers (the mirror and any external
// observers).
package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	EventQueueSize = 20
)

type EventType string

type EventSubscriberId int

type EventHandlerFunc func(Event)

type Event struct {
	Timestamp time.Time
	Data      any
	Type      EventType
}

func NewEvent(eventType EventType, eventData any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      eventData,
	}
}

type EventBus struct {
	subscribers map[EventType]map[EventSubscriberId]*channelSubscriber
	metrics     *eventMetrics
	lastSubId   EventSubscriberId
	mu          sync.RWMutex
	Logger      *slog.Logger
}

// NewEventBus creates a new EventBus
func NewEventBus(
	promRegistry prometheus.Registerer,
	logger *slog.Logger,
) *EventBus {
	e := &EventBus{
		subscribers: make(
			map[EventType]map[EventSubscriberId]*channelSubscriber,
		),
		Logger: logger,
	}
	if promRegistry != nil {
		e.initMetrics(promRegistry)
	}
	return e
}

// channelSubscriber guards the subscriber channel so that a publish racing
// an unsubscribe drops the event instead of panicking on a send to a
// closed channel.
type channelSubscriber struct {
	ch     chan Event
	mu     sync.RWMutex
	closed bool
}

func newChannelSubscriber(buffer int) *channelSubscriber {
	return &channelSubscriber{
		ch: make(chan Event, buffer),
	}
}

// deliver blocks by sending on the underlying channel, preserving ordering
// for subscribers. Holding the read lock across the send means close waits
// for in-flight sends to finish.
func (c *channelSubscriber) deliver(evt Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		// Subscriber already gone
		return
	}
	c.ch <- evt
}

// close is idempotent
func (c *channelSubscriber) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// Subscribe allows a consumer to receive events of a particular type via a channel
func (e *EventBus) Subscribe(
	eventType EventType,
) (EventSubscriberId, <-chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// Increment subscriber ID
	subId := e.lastSubId + 1
	e.lastSubId = subId
	// Add new subscriber
	if _, ok := e.subscribers[eventType]; !ok {
		e.subscribers[eventType] = make(
			map[EventSubscriberId]*channelSubscriber,
		)
	}
	sub := newChannelSubscriber(EventQueueSize)
	e.subscribers[eventType][subId] = sub
	if e.metrics != nil {
		e.metrics.subscribers.WithLabelValues(string(eventType)).Inc()
	}
	return subId, sub.ch
}

// SubscribeFunc allows a consumer to receive events of a particular type via a callback function
func (e *EventBus) SubscribeFunc(
	eventType EventType,
	handlerFunc EventHandlerFunc,
) EventSubscriberId {
	subId, evtCh := e.Subscribe(eventType)
	go func(evtCh <-chan Event, handlerFunc EventHandlerFunc) {
		for {
			evt, ok := <-evtCh
			if !ok {
				return
			}
			handlerFunc(evt)
		}
	}(evtCh, handlerFunc)
	return subId
}

// Unsubscribe stops delivery of events for a particular type for an existing subscriber
func (e *EventBus) Unsubscribe(eventType EventType, subId EventSubscriberId) {
	e.mu.Lock()
	var subToClose *channelSubscriber
	if evtTypeSubs, ok := e.subscribers[eventType]; ok {
		if sub, ok2 := evtTypeSubs[subId]; ok2 {
			subToClose = sub
			delete(evtTypeSubs, subId)
			if len(evtTypeSubs) == 0 {
				delete(e.subscribers, eventType)
			}
			if e.metrics != nil {
				e.metrics.subscribers.WithLabelValues(string(eventType)).Dec()
			}
		}
	}
	e.mu.Unlock()
	// Close outside the bus lock; close waits for in-flight deliveries
	if subToClose != nil {
		subToClose.close()
	}
}

// Publish allows a producer to send an event of a particular type to all subscribers
func (e *EventBus) Publish(eventType EventType, evt Event) {
	// Build list of subscribers inside read lock to avoid map race condition
	e.mu.RLock()
	subs := e.subscribers[eventType]
	subList := make([]*channelSubscriber, 0, len(subs))
	for _, sub := range subs {
		subList = append(subList, sub)
	}
	e.mu.RUnlock()
	// Deliver to gathered subscribers (may block on a slow subscriber,
	// which preserves ordering for the mirror). A subscriber that closed
	// after the snapshot drops the event instead of panicking.
	for _, sub := range subList {
		sub.deliver(evt)
	}
	if e.metrics != nil {
		e.metrics.eventsTotal.WithLabelValues(string(eventType)).Inc()
	}
}

// Stop closes all subscriber channels and clears the subscribers map.
// This ensures that SubscribeFunc goroutines exit cleanly during shutdown.
func (e *EventBus) Stop() {
	e.mu.Lock()
	subsCopy := e.subscribers
	e.subscribers = make(map[EventType]map[EventSubscriberId]*channelSubscriber)
	e.mu.Unlock()
	for _, evtTypeSubs := range subsCopy {
		for _, sub := range evtTypeSubs {
			sub.close()
		}
	}
	if e.metrics != nil {
		e.metrics.subscribers.Reset()
	}
}
