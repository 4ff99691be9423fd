package memstore

import (
	"context"
	"sync"
)

// Hub fans change signals out to listeners registered under a key (a room
// or a user). Each listener owns a one-slot channel, so a slow reader sees
// one pending signal no matter how many changes happened meanwhile.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]map[int64]chan struct{}
	nextID    int64
}

// NewHub creates a new hub instance.
func NewHub() *Hub {
	return &Hub{listeners: make(map[string]map[int64]chan struct{})}
}

// Register adds a listener for key and returns its id and signal channel.
// The channel is closed by Unregister.
func (h *Hub) Register(key string) (int64, <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.listeners[key]; !ok {
		h.listeners[key] = make(map[int64]chan struct{})
	}

	h.nextID++
	id := h.nextID
	ch := make(chan struct{}, 1)
	h.listeners[key][id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel.
func (h *Hub) Unregister(key string, id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ls, ok := h.listeners[key]; ok {
		if ch, ok := ls[id]; ok {
			close(ch)
			delete(ls, id)
		}
		if len(ls) == 0 {
			delete(h.listeners, key)
		}
	}
}

// Listen registers a listener for key. It is unregistered when release is
// called or once ctx is done, whichever comes first.
func (h *Hub) Listen(ctx context.Context, key string) (<-chan struct{}, func()) {
	id, ch := h.Register(key)
	unregister := sync.OnceFunc(func() { h.Unregister(key, id) })
	stop := context.AfterFunc(ctx, unregister)
	return ch, func() {
		stop()
		unregister()
	}
}

// Notify signals every listener of key without blocking and returns how
// many listeners are registered.
func (h *Hub) Notify(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ls := h.listeners[key]
	for _, ch := range ls {
		select {
		case ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
	return len(ls)
}

// Listeners returns the number of listeners registered under key.
func (h *Hub) Listeners(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[key])
}
