package session

import "sync"

// Listener receives every emitted state in emit order.
type Listener func(State)

// notifier fans emitted states out to subscribed listeners. Listeners
// are invoked synchronously from the machine's worker goroutine, so
// delivery order matches emit order.
type notifier struct {
	mu        sync.RWMutex
	listeners []Listener
}

func newNotifier() *notifier {
	return &notifier{}
}

func (n *notifier) subscribe(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

func (n *notifier) publish(state State) {
	n.mu.RLock()
	listeners := append([]Listener{}, n.listeners...)
	n.mu.RUnlock()

	for _, l := range listeners {
		l(state)
	}
}
