package storage

import (
	"context"
	"sync"

	"github.com/julianstephens/habitlit/internal/models"
)

// Broadcaster fans habit snapshots out to subscribers. Each subscriber has a one-slot
// buffer; publishing replaces an unread snapshot instead of blocking.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan []models.Habit]struct{}
	closed bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan []models.Habit]struct{})}
}

// Subscribe registers a subscriber that first receives initial. The channel is closed
// when ctx is done or the broadcaster is closed.
func (b *Broadcaster) Subscribe(ctx context.Context, initial []models.Habit) <-chan []models.Habit {
	ch := make(chan []models.Habit, 1)
	ch <- initial

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(ch)
	}()
	return ch
}

// Publish hands snapshot to every subscriber. Subscribers must not modify it.
func (b *Broadcaster) Publish(snapshot []models.Habit) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- snapshot:
		default:
			// Drop the unread snapshot; only the latest matters.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later subscriptions are closed immediately.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		close(ch)
		delete(b.subs, ch)
	}
	b.closed = true
}

func (b *Broadcaster) remove(ch chan []models.Habit) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}
