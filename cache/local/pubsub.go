package local

import (
	"context"
	"sync"
)

// LocalMessage is an in-process pub/sub message.
type LocalMessage struct {
	Channel string
	Payload string
}

type listener struct {
	ch chan *LocalMessage
}

// LocalPubSub fans published messages out to every listener of a
// channel. It stands in for Redis pub/sub when no Redis address is
// configured; delivery is process-local only.
type LocalPubSub struct {
	mu        sync.RWMutex
	listeners map[string][]*listener
	bufSize   int
}

// NewPubSub creates a LocalPubSub. bufSize bounds each listener's
// delivery buffer.
func NewPubSub(bufSize int) *LocalPubSub {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &LocalPubSub{
		listeners: make(map[string][]*listener),
		bufSize:   bufSize,
	}
}

// Publish delivers message to every current listener of channel. A
// listener whose buffer is full misses the message; publishing never
// blocks.
func (ps *LocalPubSub) Publish(_ context.Context, channel, message string) error {
	msg := &LocalMessage{Channel: channel, Payload: message}
	ps.mu.RLock()
	targets := ps.listeners[channel]
	ps.mu.RUnlock()
	for _, l := range targets {
		select {
		case l.ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers one listener across all the given channels. The
// returned cancel removes the registrations and closes the channel.
func (ps *LocalPubSub) Subscribe(_ context.Context, channels ...string) (<-chan *LocalMessage, func(), error) {
	ch := make(chan *LocalMessage, ps.bufSize)
	added := make([]*listener, len(channels))

	ps.mu.Lock()
	for i, name := range channels {
		l := &listener{ch: ch}
		ps.listeners[name] = append(ps.listeners[name], l)
		added[i] = l
	}
	ps.mu.Unlock()

	cancel := func() {
		ps.mu.Lock()
		defer ps.mu.Unlock()
		for i, name := range channels {
			list := ps.listeners[name]
			for j, l := range list {
				if l == added[i] {
					ps.listeners[name] = append(list[:j], list[j+1:]...)
					break
				}
			}
		}
		close(ch)
	}

	return ch, cancel, nil
}
