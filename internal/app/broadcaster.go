package app

import (
	"context"
	"sync"

	"quiz-service/internal/domain"
)

// Broadcaster fans live events out to every connected viewer in this process.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan domain.LiveEvent]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan domain.LiveEvent]struct{}),
	}
}

// Subscribe returns a channel of live events.
// The caller must invoke the returned cancel function to avoid leaks.
func (b *Broadcaster) Subscribe() (<-chan domain.LiveEvent, func()) {
	ch := make(chan domain.LiveEvent, 8)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to all current subscribers without blocking.
func (b *Broadcaster) Publish(ev domain.LiveEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			// slow viewer: drop its oldest pending event to make room
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// ScoresChanged implements Notifier for single-process deployments.
func (b *Broadcaster) ScoresChanged(_ context.Context) {
	b.Publish(domain.LiveEvent{Type: domain.EventScoresUpdated})
}

// Viewers reports how many subscribers are connected.
func (b *Broadcaster) Viewers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
