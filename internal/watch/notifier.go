// Package watch provides the change-notification primitive shared by the
// stateful components. Consumers (the view layer) subscribe and re-read
// the owning component's snapshot whenever the channel fires.
package watch

import "sync"

// Notifier fans out "something changed" signals to subscribers.
// Channels are buffered with capacity one and sends never block, so a
// slow subscriber coalesces bursts into a single pending signal.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan struct{})}
}

// Watch registers a subscriber. The returned cancel func releases the
// subscription and must be called on teardown.
func (n *Notifier) Watch() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Notify signals every subscriber without blocking.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
