// Package notifier provides a simple broadcast mechanism for SSE updates.
package notifier

import "sync"

// Event tells listeners what changed.
type Event int

// Events.
const (
	// EventHistory means the analysis archive changed.
	EventHistory Event = iota + 1
	// EventReload means static assets changed and pages should reload.
	EventReload
)

func (e Event) String() string {
	switch e {
	case EventHistory:
		return "history"
	case EventReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Notifier broadcasts events to all subscribed listeners.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 4)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends e to all listeners. A listener whose buffer is full
// misses the event.
func (n *Notifier) Broadcast(e Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- e:
		default:
		}
	}
}

// Len returns the number of listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
