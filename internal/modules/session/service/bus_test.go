package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionadapter "lockin/internal/modules/session/adapter/out"
	"lockin/internal/modules/session/domain"
	"lockin/internal/modules/session/service"
)

func TestSubscribeDeliversCurrentSnapshotImmediately(t *testing.T) {
	t.Parallel()
	slot := &memSlot{}
	s := domain.New("s", domain.Draft{Target: "x", LengthMinutes: 5}, time.Now())
	slot.Write(context.Background(), &s)
	bus := service.NewBus(slot, nil, nil)

	var got []*domain.Session
	unsubscribe := bus.Subscribe(context.Background(), func(session *domain.Session) { got = append(got, session) })
	defer unsubscribe()

	require.Len(t, got, 1)
	require.NotNil(t, got[0])
	assert.Equal(t, "s", got[0].SessionID)
}

func TestSubscribeOnEmptySlotDeliversNil(t *testing.T) {
	t.Parallel()
	bus := service.NewBus(&memSlot{}, nil, nil)
	calls := 0
	bus.Subscribe(context.Background(), func(session *domain.Session) {
		calls++
		assert.Nil(t, session)
	})
	assert.Equal(t, 1, calls)
}

func TestListenerSubscribedMidPassWaitsForNextPass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := service.NewBus(&memSlot{}, nil, nil)

	inPass := false
	lateCalls := 0
	bus.Subscribe(ctx, func(*domain.Session) {
		if !inPass {
			return
		}
		inPass = false
		bus.Subscribe(ctx, func(*domain.Session) { lateCalls++ })
	})

	inPass = true
	bus.Notify(ctx)
	require.Equal(t, 1, lateCalls, "only the immediate delivery on subscribe")
	require.Equal(t, 2, bus.Len())

	bus.Notify(ctx)
	assert.Equal(t, 2, lateCalls, "the late listener joins from the next pass")
}

func TestSubscribeDuringPassOnAnotherGoroutineWaitsForThatPass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := service.NewBus(&memSlot{}, nil, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var blocking atomic.Bool
	bus.Subscribe(ctx, func(*domain.Session) {
		if blocking.CompareAndSwap(true, false) {
			close(entered)
			<-release
		}
	})

	blocking.Store(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.Notify(ctx)
	}()
	<-entered

	var lateCalls atomic.Int32
	bus.Subscribe(ctx, func(*domain.Session) { lateCalls.Add(1) })
	assert.Zero(t, lateCalls.Load(), "first snapshot must not overlap the running pass")

	close(release)
	<-done
	assert.Equal(t, int32(1), lateCalls.Load(), "the running pass delivers the first snapshot when it ends")
}

func TestNotifyDuringPassIsCoalesced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := service.NewBus(&memSlot{}, nil, nil)

	depth, maxDepth, calls := 0, 0, 0
	bus.Subscribe(ctx, func(*domain.Session) {
		calls++
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		if calls == 2 {
			bus.Notify(ctx)
			bus.Notify(ctx)
		}
		depth--
	})
	bus.Notify(ctx)

	assert.Equal(t, 1, maxDepth, "listener must never be re-entered")
	assert.Equal(t, 3, calls, "immediate + pass + one coalesced follow-up")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := service.NewBus(&memSlot{}, nil, nil)
	calls := 0
	unsubscribe := bus.Subscribe(ctx, func(*domain.Session) { calls++ })
	unsubscribe()
	unsubscribe()
	bus.Notify(ctx)
	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.Len())
}

func TestPanickingListenerDoesNotStopOthers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := service.NewBus(&memSlot{}, nil, nil)
	bus.Subscribe(ctx, func(*domain.Session) { panic("boom") })
	calls := 0
	bus.Subscribe(ctx, func(*domain.Session) { calls++ })
	require.NotPanics(t, func() { bus.Notify(ctx) })
	assert.Equal(t, 2, calls)
}

func TestListenersGetIndependentCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	slot := &memSlot{}
	s := domain.New("s", domain.Draft{Target: "original", LengthMinutes: 5}, time.Now())
	slot.Write(ctx, &s)
	bus := service.NewBus(slot, nil, nil)
	bus.Subscribe(ctx, func(session *domain.Session) { session.Target = "mutated" })
	assert.Equal(t, "original", slot.Read(ctx).Target)
}

func TestTransportAttachesOnFirstSubscribeAndRelaysRemoteChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hub := sessionadapter.NewBroadcastHub()
	slot := &memSlot{}
	tabA := service.NewBus(slot, hub.Endpoint(), nil)
	tabB := service.NewBus(slot, hub.Endpoint(), nil)
	defer tabA.Close()
	defer tabB.Close()

	var seenByB []string
	tabB.Subscribe(ctx, func(session *domain.Session) {
		if session == nil {
			seenByB = append(seenByB, "")
			return
		}
		seenByB = append(seenByB, session.SessionID)
	})
	selfCalls := 0
	tabA.Subscribe(ctx, func(*domain.Session) { selfCalls++ })

	s := domain.New("remote", domain.Draft{LengthMinutes: 5}, time.Now())
	slot.Write(ctx, &s)
	tabA.Notify(ctx)

	assert.Equal(t, []string{"", "remote"}, seenByB)
	assert.Equal(t, 2, selfCalls, "the announcing bus runs one local pass and gets no echo")
}
