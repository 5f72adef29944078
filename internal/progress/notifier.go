// Package progress broadcasts prefetch progress snapshots to subscribers.
package progress

import (
	"sync"

	"github.com/hlsgate/hlsgate/internal/config"
	"github.com/hlsgate/hlsgate/internal/models"
)

// Listener receives progress snapshots. Each listener gets its own copy of
// the snapshot, so mutating it is harmless.
type Listener func(models.ProgressSnapshot)

// Notifier is a subscribe/publish broadcast of download progress. New
// subscribers immediately receive the current snapshot; a panicking listener
// is isolated so it cannot block the others.
type Notifier struct {
	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	current   models.ProgressSnapshot
}

// NewNotifier creates an empty Notifier with a zero snapshot.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns its unsubscribe function. The
// listener is invoked immediately with the current snapshot.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = l
	current := n.current
	n.mu.Unlock()

	notify(l, current)

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// Publish records the snapshot as current and delivers a copy to every
// subscriber.
func (n *Notifier) Publish(snapshot models.ProgressSnapshot) {
	n.mu.Lock()
	n.current = snapshot
	listeners := make([]Listener, 0, len(n.listeners))
	for _, l := range n.listeners {
		listeners = append(listeners, l)
	}
	n.mu.Unlock()

	for _, l := range listeners {
		notify(l, snapshot)
	}
}

// Current returns the most recently published snapshot.
func (n *Notifier) Current() models.ProgressSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// notify delivers a snapshot to one listener, swallowing panics so a broken
// subscriber cannot take down the publisher or starve its peers.
func notify(l Listener, snapshot models.ProgressSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			logger := config.GetLogger()
			logger.Warn().Interface("panic", r).Msg("Progress listener panicked")
		}
	}()
	l(snapshot)
}
