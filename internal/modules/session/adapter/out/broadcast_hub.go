package out

import (
	"context"
	"slices"
	"sync"

	sessionout "lockin/internal/modules/session/port/out"
)

// BroadcastHub connects engine handles inside one process the way a shared
// origin connects browser tabs: a change announced through one endpoint
// reaches every other endpoint listening on the same key.
type BroadcastHub struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]hubListener
}

type hubListener struct {
	endpoint *hubEndpoint
	key      string
	onChange func()
}

type hubEndpoint struct {
	hub *BroadcastHub
}

func NewBroadcastHub() *BroadcastHub {
	return &BroadcastHub{listeners: map[uint64]hubListener{}}
}

// Endpoint returns a new transport attached to the hub.
func (h *BroadcastHub) Endpoint() sessionout.ChangeTransport {
	return &hubEndpoint{hub: h}
}

func (e *hubEndpoint) Announce(_ context.Context, key string) {
	e.hub.mu.Lock()
	ids := make([]uint64, 0, len(e.hub.listeners))
	for id, l := range e.hub.listeners {
		if l.endpoint != e && l.key == key {
			ids = append(ids, id)
		}
	}
	e.hub.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		e.hub.mu.Lock()
		l, ok := e.hub.listeners[id]
		e.hub.mu.Unlock()
		if ok {
			l.onChange()
		}
	}
}

func (e *hubEndpoint) Listen(key string, onChange func()) (func(), error) {
	e.hub.mu.Lock()
	e.hub.nextID++
	id := e.hub.nextID
	e.hub.listeners[id] = hubListener{endpoint: e, key: key, onChange: onChange}
	e.hub.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.hub.mu.Lock()
			delete(e.hub.listeners, id)
			e.hub.mu.Unlock()
		})
	}, nil
}
