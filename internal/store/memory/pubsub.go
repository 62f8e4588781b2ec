package memory

import (
	"context"
	"sync"
)

const subscriberBuffer = 64

// PubSub is an in-process fan-out broker with the same surface as the Redis
// pub/sub. Slow subscribers drop messages instead of blocking publishers.
type PubSub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan []byte
}

func NewPubSub() *PubSub {
	return &PubSub{subs: make(map[string]map[int]chan []byte)}
}

func (ps *PubSub) Publish(_ context.Context, channel string, payload []byte) error {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subs[channel] {
		msg := append([]byte(nil), payload...)
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers for messages on channel. The returned channel closes
// when ctx is done or cleanup is called.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	ps.mu.Lock()
	id := ps.nextID
	ps.nextID++
	ch := make(chan []byte, subscriberBuffer)
	if ps.subs[channel] == nil {
		ps.subs[channel] = make(map[int]chan []byte)
	}
	ps.subs[channel][id] = ch
	ps.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cleanup := func() {
		once.Do(func() {
			close(done)
			ps.mu.Lock()
			delete(ps.subs[channel], id)
			if len(ps.subs[channel]) == 0 {
				delete(ps.subs, channel)
			}
			ps.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()

	return ch, cleanup, nil
}

// Close is a no-op kept for parity with the Redis pub/sub.
func (ps *PubSub) Close() error {
	return nil
}
