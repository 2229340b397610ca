package state

import (
	"sync"
	"time"
)

const subscriptionBuffer = 16

// Subscription receives events for a set of topics until closed.
// Publishing blocks on a full buffer, so subscribers must keep draining C.
type Subscription struct {
	model  *Model
	topics map[Topic]bool
	ch     chan Event
	done   chan struct{}
	once   sync.Once
}

// Subscribe registers for events on the given topics, or on all topics if none are given
func (m *Model) Subscribe(topics ...Topic) *Subscription {
	if len(topics) == 0 {
		topics = AllTopics
	}
	sub := &Subscription{
		model:  m,
		topics: make(map[Topic]bool, len(topics)),
		ch:     make(chan Event, subscriptionBuffer),
		done:   make(chan struct{}),
	}
	for _, t := range topics {
		sub.topics[t] = true
	}

	m.subsMu.Lock()
	m.subs[sub] = struct{}{}
	m.subsMu.Unlock()

	return sub
}

// C returns the event channel. It is never closed; select on Done to stop.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Done is closed once the subscription has been closed
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close unregisters the subscription and unblocks any pending publish
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.model.subsMu.Lock()
		delete(s.model.subs, s)
		s.model.subsMu.Unlock()
		close(s.done)
	})
}

func (m *Model) publish(topic Topic, cycleID string) {
	ev := Event{Topic: topic, CycleID: cycleID, At: time.Now()}

	m.subsMu.Lock()
	targets := make([]*Subscription, 0, len(m.subs))
	for sub := range m.subs {
		if sub.topics[topic] {
			targets = append(targets, sub)
		}
	}
	m.subsMu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		}
	}
}
