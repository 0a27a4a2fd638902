package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var ErrBrokerClosed = errors.New("broker closed")

// MemoryBroker fans messages out to in-process subscribers. Slow subscribers drop messages.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan []byte]struct{}
	buffer int
	closed bool
	done   chan struct{}
	// watchers counts the goroutines waiting on subscriber contexts.
	watchers sync.WaitGroup
}

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 100
	}
	return &MemoryBroker{
		subs:   make(map[string]map[chan []byte]struct{}),
		buffer: buffer,
		done:   make(chan struct{}),
	}
}

func (b *MemoryBroker) Publish(_ context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBrokerClosed
	}
	for ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}

	ch := make(chan []byte, b.buffer)
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[chan []byte]struct{})
	}
	b.subs[channel][ch] = struct{}{}

	b.watchers.Add(1)
	go func() {
		defer b.watchers.Done()
		select {
		case <-ctx.Done():
			b.unsubscribe(channel, ch)
		case <-b.done:
		}
	}()

	return ch, nil
}

func (b *MemoryBroker) unsubscribe(channel string, ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[channel][ch]; !ok {
		return
	}
	delete(b.subs[channel], ch)
	if len(b.subs[channel]) == 0 {
		delete(b.subs, channel)
	}
	close(ch)
}

// Close closes every subscriber channel and waits for their context watchers to exit.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	for channel, chans := range b.subs {
		for ch := range chans {
			close(ch)
		}
		delete(b.subs, channel)
	}
	b.mu.Unlock()

	b.watchers.Wait()
	return nil
}
