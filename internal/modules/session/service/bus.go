package service

import (
	"context"
	"log/slog"
	"sync"

	"lockin/internal/modules/session/domain"
	sessionout "lockin/internal/modules/session/port/out"
	"lockin/internal/platform/logging"
)

// Listener receives the slot content after a change; nil means no session.
// The bus never runs two deliveries at once, so a listener is not called
// concurrently with itself or with another listener of the same bus.
type Listener func(session *domain.Session)

type subscription struct {
	id       uint64
	listener Listener
}

// Bus fans slot changes out to listeners in this process and relays them to
// other processes through a ChangeTransport. Delivery is synchronous. At most
// one pass runs at a time, first snapshots included; notifications raised
// during a pass are folded into a single follow-up pass.
type Bus struct {
	slot      sessionout.SessionSlot
	transport sessionout.ChangeTransport
	logger    *slog.Logger

	mu         sync.Mutex
	subs       []subscription
	nextID     uint64
	attached   bool
	stopRemote func()
	delivering bool
	pending    bool
	primes     []subscription
}

func NewBus(slot sessionout.SessionSlot, transport sessionout.ChangeTransport, logger *slog.Logger) *Bus {
	return &Bus{slot: slot, transport: transport, logger: logging.OrDiscard(logger)}
}

// Subscribe registers listener and hands it the current slot content. When
// no pass is running the snapshot is delivered before Subscribe returns;
// otherwise the running pass delivers it once it completes. The returned func
// removes the listener and is safe to call twice.
func (b *Bus) Subscribe(ctx context.Context, listener Listener) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	sub := subscription{id: id, listener: listener}
	b.subs = append(b.subs, sub)
	b.primes = append(b.primes, sub)
	attach := !b.attached && b.transport != nil
	b.attached = true
	start := !b.delivering
	b.delivering = true
	b.mu.Unlock()

	if attach {
		b.attachRemote(ctx)
	}
	if start {
		b.drain(ctx)
	}

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// Notify runs a pass for a local mutation and announces it to other processes.
func (b *Bus) Notify(ctx context.Context) {
	b.run(ctx)
	if b.transport != nil {
		b.transport.Announce(ctx, b.slot.Key())
	}
}

// Close detaches the bus from its transport. Listeners stay registered.
func (b *Bus) Close() {
	b.mu.Lock()
	stop := b.stopRemote
	b.stopRemote = nil
	b.attached = false
	b.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Len reports the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) attachRemote(ctx context.Context) {
	stop, err := b.transport.Listen(b.slot.Key(), func() { b.run(context.WithoutCancel(ctx)) })
	if err != nil {
		b.logger.Warn("session bus: cross-process signal unavailable", "key", b.slot.Key(), "error", err)
		return
	}
	b.mu.Lock()
	b.stopRemote = stop
	b.mu.Unlock()
}

func (b *Bus) run(ctx context.Context) {
	b.mu.Lock()
	b.pending = true
	if b.delivering {
		b.mu.Unlock()
		return
	}
	b.delivering = true
	b.mu.Unlock()
	b.drain(ctx)
}

// drain delivers queued work until none is left. The caller must have set
// delivering. A full pass also covers listeners still waiting for their
// first snapshot.
func (b *Bus) drain(ctx context.Context) {
	for {
		b.mu.Lock()
		primes := b.primes
		b.primes = nil
		full := b.pending
		b.pending = false
		if !full && len(primes) == 0 {
			b.delivering = false
			b.mu.Unlock()
			return
		}
		batch := primes
		if full {
			batch = make([]subscription, len(b.subs))
			copy(batch, b.subs)
		}
		b.mu.Unlock()

		session := b.slot.Read(ctx)
		for _, sub := range batch {
			if !b.subscribed(sub.id) {
				continue
			}
			b.deliver(sub.listener, session)
		}
	}
}

func (b *Bus) deliver(listener Listener, session *domain.Session) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("session bus: listener panicked", "key", b.slot.Key(), "panic", r)
		}
	}()
	var snapshot *domain.Session
	if session != nil {
		c := session.Clone()
		snapshot = &c
	}
	listener(snapshot)
}

func (b *Bus) subscribed(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}
